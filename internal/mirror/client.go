package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Client 购物车API客户端。遵循"先确认后落镜像"：
// 镜像只用服务端返回的合并结果更新，失败时镜像保持原状
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
	mirror  *Mirror
}

// NewClient 创建客户端实例
func NewClient(baseURL, userID string, m *Mirror) *Client {
	return &Client{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{Timeout: 10 * time.Second},
		mirror:  m,
	}
}

// Mirror 返回客户端持有的镜像
func (c *Client) Mirror() *Mirror { return c.mirror }

type addItemPayload struct {
	UserID    string `json:"userId"`
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type lineItemResult struct {
	ID        uint   `json:"id"`
	UserID    string `json:"userId"`
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type cartItemResult struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
	Product   *struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		Price    string `json:"price"`
		ImageURL string `json:"imageUrl"`
	} `json:"product"`
}

type cartResult struct {
	UserID string           `json:"userId"`
	Items  []cartItemResult `json:"items"`
}

// AddToCart 向服务端加购，成功后用返回的合并数量更新镜像
func (c *Client) AddToCart(ctx context.Context, product Entry, quantity int) error {
	body, err := json.Marshal(addItemPayload{
		UserID:    c.userID,
		ProductID: product.ProductID,
		Quantity:  quantity,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cart", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("add to cart failed with status %d: %s", resp.StatusCode, readError(resp.Body))
	}

	var merged lineItemResult
	if err := json.NewDecoder(resp.Body).Decode(&merged); err != nil {
		return fmt.Errorf("failed to decode add to cart response: %w", err)
	}

	c.mirror.SetQuantity(product, merged.Quantity)
	return nil
}

// RemoveFromCart 从服务端移除一行；服务端确认后（含404，目标已不存在）
// 同步移除镜像中的对应行
func (c *Client) RemoveFromCart(ctx context.Context, productID uint) error {
	url := fmt.Sprintf("%s/api/cart/%s/%d", c.baseURL, c.userID, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to remove item from cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove from cart failed with status %d: %s", resp.StatusCode, readError(resp.Body))
	}

	c.mirror.RemoveItem(productID)
	return nil
}

// ClearCart 清空服务端购物车并同步清空镜像
func (c *Client) ClearCart(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/cart/%s", c.baseURL, c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("clear cart failed with status %d: %s", resp.StatusCode, readError(resp.Body))
	}

	c.mirror.Clear()
	return nil
}

// FetchCart 拉取服务端购物车并以其为准对账镜像
func (c *Client) FetchCart(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/cart/%s", c.baseURL, c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch cart failed with status %d: %s", resp.StatusCode, readError(resp.Body))
	}

	var cart cartResult
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return fmt.Errorf("failed to decode cart response: %w", err)
	}

	entries := make([]Entry, 0, len(cart.Items))
	for _, item := range cart.Items {
		entry := Entry{ProductID: item.ProductID, Quantity: item.Quantity}
		if item.Product != nil {
			entry.Name = item.Product.Name
			entry.ImageURL = item.Product.ImageURL
			if price, err := decimal.NewFromString(item.Product.Price); err == nil {
				entry.Price = price
			}
		}
		entries = append(entries, entry)
	}

	c.mirror.Reconcile(entries)
	return nil
}

func readError(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Message == "" {
		return "unknown error"
	}
	return body.Message
}
