package domain

import (
	"fmt"

	"gorm.io/gorm"
)

// Category 商品分类
type Category struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(256);uniqueIndex;not null"`
	Slug string `gorm:"column:slug;type:varchar(256);not null"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// Validate 校验分类字段
func (c *Category) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	if c.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidCategory)
	}
	return nil
}
