package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/messaging"
)

type fakeCartRepo struct {
	mu     sync.Mutex
	nextID uint
	items  map[string]*domain.CartLineItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[string]*domain.CartLineItem)}
}

func (r *fakeCartRepo) key(userID string, productID uint) string {
	return fmt.Sprintf("%s/%d", userID, productID)
}

func (r *fakeCartRepo) Upsert(ctx context.Context, item *domain.CartLineItem) (*domain.CartLineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := r.key(item.UserID, item.ProductID)
	if existing, ok := r.items[k]; ok {
		existing.Quantity += item.Quantity
		merged := *existing
		return &merged, nil
	}
	r.nextID++
	stored := &domain.CartLineItem{UserID: item.UserID, ProductID: item.ProductID, Quantity: item.Quantity}
	stored.ID = r.nextID
	r.items[k] = stored
	merged := *stored
	return &merged, nil
}

func (r *fakeCartRepo) Remove(ctx context.Context, userID string, productID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := r.key(userID, productID)
	if _, ok := r.items[k]; !ok {
		return false, nil
	}
	delete(r.items, k)
	return true, nil
}

func (r *fakeCartRepo) ListByUser(ctx context.Context, userID string) ([]*domain.CartLineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.CartLineItem
	for _, item := range r.items {
		if item.UserID == userID {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, item := range r.items {
		if item.UserID == userID {
			delete(r.items, k)
		}
	}
	return nil
}

type fakeCatalog struct {
	products map[uint]application.ProductInfo
}

func (f *fakeCatalog) ProductExists(ctx context.Context, productID uint) (bool, error) {
	_, ok := f.products[productID]
	return ok, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID uint) (*application.ProductInfo, error) {
	info, ok := f.products[productID]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	catalog := &fakeCatalog{products: map[uint]application.ProductInfo{
		1: {ID: 1, Name: "Espresso Beans", Price: decimal.RequireFromString("12.49"), ImageURL: "https://img.example/beans.jpg"},
	}}
	svc := application.NewCartService(newFakeCartRepo(), catalog, catalog, messaging.NoopPublisher{})

	router := gin.New()
	NewCartHandler(svc, nil).RegisterRoutes(router.Group("/api"))
	return router
}

func postCart(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddItemReturnsMergedRow(t *testing.T) {
	router := newTestRouter()

	w := postCart(t, router, `{"userId":"user123","productId":1,"quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postCart(t, router, `{"userId":"user123","productId":1,"quantity":3}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var item lineItemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "user123", item.UserID)
	assert.Equal(t, uint(1), item.ProductID)
	assert.Equal(t, 5, item.Quantity)
}

func TestAddItemRejectsMalformedBody(t *testing.T) {
	router := newTestRouter()

	for _, body := range []string{
		`{"userId":"user123"}`,
		`{"productId":1,"quantity":2}`,
		`{"userId":"user123","productId":1,"quantity":"two"}`,
		`not json`,
	} {
		w := postCart(t, router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp, "message")
	}
}

func TestAddItemQuantityDefaultsToOne(t *testing.T) {
	router := newTestRouter()

	w := postCart(t, router, `{"userId":"user123","productId":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var item lineItemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 1, item.Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	router := newTestRouter()

	for _, body := range []string{
		`{"userId":"user123","productId":1,"quantity":0}`,
		`{"userId":"user123","productId":1,"quantity":-2}`,
	} {
		w := postCart(t, router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestAddItemUnknownProductReturns404(t *testing.T) {
	router := newTestRouter()

	w := postCart(t, router, `{"userId":"user123","productId":42,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveItemStatusCodes(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/cart/user123/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "nothing in the cart yet")

	require.Equal(t, http.StatusCreated, postCart(t, router, `{"userId":"user123","productId":1,"quantity":1}`).Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/cart/user123/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/cart/user123/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "removal is idempotent, repeat reports 404")
}

func TestGetCartReturnsViewWithTotals(t *testing.T) {
	router := newTestRouter()

	require.Equal(t, http.StatusCreated, postCart(t, router, `{"userId":"user123","productId":1,"quantity":2}`).Code)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart/user123", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view application.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "user123", view.UserID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, "24.98", view.TotalPrice)
	require.NotNil(t, view.Items[0].Product)
	assert.Equal(t, "Espresso Beans", view.Items[0].Product.Name)
}

func TestClearCartReturns204(t *testing.T) {
	router := newTestRouter()

	require.Equal(t, http.StatusCreated, postCart(t, router, `{"userId":"user123","productId":1,"quantity":2}`).Code)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/cart/user123", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart/user123", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view application.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
}
