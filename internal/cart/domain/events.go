package domain

import "time"

// CartItemAddedEvent 加购事件；Quantity 为合并后的总数量
type CartItemAddedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 移除事件
type CartItemRemovedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID uint      `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClearedEvent 清空事件
type CartClearedEvent struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}
