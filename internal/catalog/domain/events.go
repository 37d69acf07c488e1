package domain

import "time"

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID  uint      `json:"product_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	CategoryID uint      `json:"category_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProductUpdatedEvent 商品更新事件
type ProductUpdatedEvent struct {
	ProductID  uint      `json:"product_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	CategoryID uint      `json:"category_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProductDeletedEvent 商品删除事件
type ProductDeletedEvent struct {
	ProductID uint      `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CategoryCreatedEvent 分类创建事件
type CategoryCreatedEvent struct {
	CategoryID uint      `json:"category_id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
}
