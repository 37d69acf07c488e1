package application_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/messaging"
)

type memoryProductRepo struct {
	mu       sync.Mutex
	nextID   uint
	products map[uint]*domain.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[uint]*domain.Product)}
}

func (r *memoryProductRepo) Save(ctx context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	}
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *memoryProductRepo) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memoryProductRepo) List(ctx context.Context, search string, categoryID uint) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Product
	for _, p := range r.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memoryProductRepo) Delete(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

type memoryCategoryRepo struct {
	mu         sync.Mutex
	nextID     uint
	categories map[uint]*domain.Category
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{categories: make(map[uint]*domain.Category)}
}

func (r *memoryCategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	}
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *memoryCategoryRepo) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memoryCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Category
	for _, c := range r.categories {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func newTestCatalog() *application.CatalogService {
	return application.NewCatalogService(
		newMemoryProductRepo(),
		newMemoryCategoryRepo(),
		nil,
		messaging.NoopPublisher{},
	)
}

func TestCreateProduct(t *testing.T) {
	svc := newTestCatalog()

	product, err := svc.CreateProduct(context.Background(), application.CreateProductCommand{
		Name:     "Espresso Beans",
		Price:    decimal.RequireFromString("12.49"),
		ImageURL: "https://img.example/beans.jpg",
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "12.49", product.Price.StringFixed(2))
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, application.CreateProductCommand{
		Price:    decimal.RequireFromString("12.49"),
		ImageURL: "https://img.example/beans.jpg",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = svc.CreateProduct(ctx, application.CreateProductCommand{
		Name:     "Free Beans",
		Price:    decimal.Zero,
		ImageURL: "https://img.example/beans.jpg",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct, "price must be positive")

	_, err = svc.CreateProduct(ctx, application.CreateProductCommand{
		Name:  "Faceless Beans",
		Price: decimal.RequireFromString("12.49"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct, "image url is required")
}

func TestUpdateProductPartialFields(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, application.CreateProductCommand{
		Name:        "Espresso Beans",
		Description: "dark roast",
		Price:       decimal.RequireFromString("12.49"),
		ImageURL:    "https://img.example/beans.jpg",
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("13.99")
	updated, err := svc.UpdateProduct(ctx, application.UpdateProductCommand{
		ID:    product.ID,
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "13.99", updated.Price.StringFixed(2))
	assert.Equal(t, "Espresso Beans", updated.Name, "omitted fields stay untouched")
	assert.Equal(t, "dark roast", updated.Description)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc := newTestCatalog()

	name := "Ghost"
	_, err := svc.UpdateProduct(context.Background(), application.UpdateProductCommand{ID: 99, Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, application.CreateProductCommand{
		Name:     "Espresso Beans",
		Price:    decimal.RequireFromString("12.49"),
		ImageURL: "https://img.example/beans.jpg",
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListProductsFilters(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, application.CreateProductCommand{
		Name: "Espresso Beans", Price: decimal.RequireFromString("12.49"),
		ImageURL: "https://img.example/beans.jpg", CategoryID: 1,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, application.CreateProductCommand{
		Name: "Pour Over Kettle", Price: decimal.RequireFromString("20.00"),
		ImageURL: "https://img.example/kettle.jpg", CategoryID: 2,
	})
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := svc.ListProducts(ctx, "kettle", 0)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Pour Over Kettle", byName[0].Name)

	byCategory, err := svc.ListProducts(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Espresso Beans", byCategory[0].Name)
}

func TestCreateCategory(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, application.CreateCategoryCommand{Name: "Coffee", Slug: "coffee"})
	require.NoError(t, err)
	assert.NotZero(t, category.ID)

	_, err = svc.CreateCategory(ctx, application.CreateCategoryCommand{Name: "", Slug: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
