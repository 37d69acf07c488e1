package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidProductID = errors.New("invalid product id")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrProductNotFound  = errors.New("product not found")
	ErrLineItemNotFound = errors.New("cart line item not found")
)

// CartLineItem 购物车行项目；(user_id, product_id) 全表唯一，
// 同一商品的重复加购通过数量累加合并到既有行。
// 不做软删除，移除即物理删除，否则残留行会占住唯一索引
type CartLineItem struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:varchar(128);not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (CartLineItem) TableName() string { return "cart_items" }

// Validate 校验行项目字段
func (i *CartLineItem) Validate() error {
	if i.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidUserID)
	}
	if i.ProductID == 0 {
		return fmt.Errorf("%w: product id is required", ErrInvalidProductID)
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, i.Quantity)
	}
	return nil
}
