package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	CategoryID  uint
}

// UpdateProductCommand 更新商品命令；nil 字段表示不修改
type UpdateProductCommand struct {
	ID          uint
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	CategoryID  *uint
}

// CreateCategoryCommand 创建分类命令
type CreateCategoryCommand struct {
	Name string
	Slug string
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	cache      ProductCache
	publisher  domain.EventPublisher
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	cache ProductCache,
	publisher domain.EventPublisher,
) *CatalogCommandService {
	return &CatalogCommandService{
		products:   products,
		categories: categories,
		cache:      cache,
		publisher:  publisher,
	}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	product := &domain.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		ImageURL:    cmd.ImageURL,
		CategoryID:  cmd.CategoryID,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	event := domain.ProductCreatedEvent{
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price.StringFixed(2),
		CategoryID: product.CategoryID,
		Timestamp:  time.Now(),
	}
	s.publisher.Publish(ctx, "product.created", product.Name, event)

	return product, nil
}

// UpdateProduct 处理更新商品，支持部分字段更新
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		product.Name = *cmd.Name
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.Price != nil {
		product.Price = *cmd.Price
	}
	if cmd.ImageURL != nil {
		product.ImageURL = *cmd.ImageURL
	}
	if cmd.CategoryID != nil {
		product.CategoryID = *cmd.CategoryID
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, product.ID)
	}

	event := domain.ProductUpdatedEvent{
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price.StringFixed(2),
		CategoryID: product.CategoryID,
		Timestamp:  time.Now(),
	}
	s.publisher.Publish(ctx, "product.updated", product.Name, event)

	return product, nil
}

// DeleteProduct 处理删除商品，返回是否确有删除
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, id)
	}

	event := domain.ProductDeletedEvent{
		ProductID: id,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "product.deleted", "", event)

	return true, nil
}

// CreateCategory 处理创建分类
func (s *CatalogCommandService) CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	category := &domain.Category{
		Name: cmd.Name,
		Slug: cmd.Slug,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	event := domain.CategoryCreatedEvent{
		CategoryID: category.ID,
		Name:       category.Name,
		Timestamp:  time.Now(),
	}
	s.publisher.Publish(ctx, "category.created", category.Name, event)

	return category, nil
}
