package mirror

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer replays the cart API contract with configurable responses.
type fakeServer struct {
	mergedQuantity int
	removeStatus   int
	cartBody       string
	failAll        bool
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		if f.failAll {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
			return
		}
		var payload struct {
			UserID    string `json:"userId"`
			ProductID uint   `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":        1,
			"userId":    payload.UserID,
			"productId": payload.ProductID,
			"quantity":  f.mergedQuantity,
		})
	})
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(f.removeStatus)
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(f.cartBody))
		}
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeServer) (*Client, *Mirror) {
	t.Helper()
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)

	m, err := New(NewMemoryStorage())
	require.NoError(t, err)
	return NewClient(server.URL, "user123", m), m
}

func TestAddToCartAppliesServerMergedQuantity(t *testing.T) {
	client, m := newTestClient(t, &fakeServer{mergedQuantity: 5})

	// Local mirror already holds 2; the server reports the merged total.
	entry := beans()
	entry.Quantity = 2
	m.AddItem(entry)

	require.NoError(t, client.AddToCart(context.Background(), beans(), 3))

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity, "mirror adopts the server's merged quantity, not a local guess")
}

func TestAddToCartFailureLeavesMirrorUntouched(t *testing.T) {
	client, m := newTestClient(t, &fakeServer{failAll: true})

	entry := beans()
	entry.Quantity = 2
	m.AddItem(entry)

	err := client.AddToCart(context.Background(), beans(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemoveFromCartSyncsMirror(t *testing.T) {
	client, m := newTestClient(t, &fakeServer{removeStatus: http.StatusNoContent})

	m.AddItem(beans())
	require.NoError(t, client.RemoveFromCart(context.Background(), 1))
	assert.Empty(t, m.Items())
}

func TestRemoveFromCart404StillRemovesLocally(t *testing.T) {
	client, m := newTestClient(t, &fakeServer{removeStatus: http.StatusNotFound})

	// Row exists only locally, e.g. removed from another session.
	m.AddItem(beans())
	require.NoError(t, client.RemoveFromCart(context.Background(), 1))
	assert.Empty(t, m.Items())
}

func TestRemoveFromCartServerErrorKeepsRow(t *testing.T) {
	client, m := newTestClient(t, &fakeServer{removeStatus: http.StatusInternalServerError})

	m.AddItem(beans())
	require.Error(t, client.RemoveFromCart(context.Background(), 1))
	require.Len(t, m.Items(), 1)
}

func TestFetchCartReconcilesMirror(t *testing.T) {
	body := `{
		"userId": "user123",
		"items": [
			{"productId": 1, "quantity": 2, "product": {"id": 1, "name": "Espresso Beans", "price": "12.49", "imageUrl": "https://img.example/beans.jpg"}},
			{"productId": 2, "quantity": 1, "product": {"id": 2, "name": "Pour Over Kettle", "price": "20.00", "imageUrl": "https://img.example/kettle.jpg"}}
		],
		"totalItems": 3,
		"totalPrice": "44.98"
	}`
	client, m := newTestClient(t, &fakeServer{cartBody: body})

	stale := beans()
	stale.Quantity = 9
	m.AddItem(stale)

	require.NoError(t, client.FetchCart(context.Background()))

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, decimal.RequireFromString("12.49").String(), items[0].Price.String())
	assert.Equal(t, 3, m.TotalItems())
	assert.Equal(t, "44.98", m.TotalPrice().StringFixed(2))
}

func TestClearCartClearsMirror(t *testing.T) {
	client, m := newTestClient(t, &fakeServer{removeStatus: http.StatusNoContent})

	m.AddItem(beans())
	m.AddItem(kettle())

	require.NoError(t, client.ClearCart(context.Background()))
	assert.Empty(t, m.Items())
}
