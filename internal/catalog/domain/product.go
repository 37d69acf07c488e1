package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidProduct   = errors.New("invalid product data")
	ErrInvalidCategory  = errors.New("invalid category data")
)

// Product 商品
type Product struct {
	gorm.Model
	Name        string          `gorm:"column:name;type:varchar(255);not null"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	ImageURL    string          `gorm:"column:image_url;type:text;not null"`
	CategoryID  uint            `gorm:"column:category_id;index"`
}

// TableName 指定表名
func (Product) TableName() string { return "products" }

// Validate 校验商品字段
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	}
	if p.ImageURL == "" {
		return fmt.Errorf("%w: image_url is required", ErrInvalidProduct)
	}
	return nil
}
