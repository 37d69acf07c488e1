package domain

import "context"

// CartRepository 购物车仓储。Upsert 必须原子地完成"插入或数量累加"，
// 并返回合并后的行；并发加购同一 (user_id, product_id) 不得丢失数量
type CartRepository interface {
	Upsert(ctx context.Context, item *CartLineItem) (*CartLineItem, error)
	Remove(ctx context.Context, userID string, productID uint) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*CartLineItem, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// ProductReader 商品读端口，加购前校验商品存在
type ProductReader interface {
	ProductExists(ctx context.Context, productID uint) (bool, error)
}

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
