package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// ProductInfo 商品信息快照，用于装配购物车视图
type ProductInfo struct {
	ID       uint
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

// ProductProvider 商品详情端口；商品不存在时返回 nil
type ProductProvider interface {
	GetProduct(ctx context.Context, productID uint) (*ProductInfo, error)
}

// CartItemView 购物车行项目视图
type CartItemView struct {
	ID        uint         `json:"id"`
	UserID    string       `json:"userId"`
	ProductID uint         `json:"productId"`
	Quantity  int          `json:"quantity"`
	Product   *ProductView `json:"product,omitempty"`
}

// ProductView 行项目内嵌的商品视图
type ProductView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl"`
}

// CartView 购物车整体视图，含派生的合计
type CartView struct {
	UserID     string         `json:"userId"`
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"totalItems"`
	TotalPrice string         `json:"totalPrice"`
}

// CartQueryService 购物车查询服务
type CartQueryService struct {
	carts    domain.CartRepository
	products ProductProvider
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(carts domain.CartRepository, products ProductProvider) *CartQueryService {
	return &CartQueryService{carts: carts, products: products}
}

// ListCart 列出用户购物车并装配商品详情与合计。
// 合计只统计能解析到商品的行，避免脏行影响金额
func (s *CartQueryService) ListCart(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		UserID: userID,
		Items:  make([]CartItemView, 0, len(items)),
	}
	totalPrice := decimal.Zero

	for _, item := range items {
		itemView := CartItemView{
			ID:        item.ID,
			UserID:    item.UserID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}

		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			logger.Warn(ctx, "failed to resolve product for cart item",
				"user_id", userID, "product_id", item.ProductID, "error", err)
		}
		if product != nil {
			itemView.Product = &ProductView{
				ID:       product.ID,
				Name:     product.Name,
				Price:    product.Price.StringFixed(2),
				ImageURL: product.ImageURL,
			}
			view.TotalItems += item.Quantity
			totalPrice = totalPrice.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		view.Items = append(view.Items, itemView)
	}

	view.TotalPrice = totalPrice.StringFixed(2)
	return view, nil
}
