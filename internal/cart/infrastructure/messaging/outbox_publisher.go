package messaging

import (
	"context"

	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/outbox"
)

// OutboxPublisher 将购物车事件写入 outbox 表，由 relay 异步外发
type OutboxPublisher struct {
	mgr *outbox.Manager
}

// NewOutboxPublisher 创建事件发布器实例
func NewOutboxPublisher(mgr *outbox.Manager) *OutboxPublisher {
	return &OutboxPublisher{mgr: mgr}
}

// Publish 写入事件；失败只记录日志，不阻塞业务主流程
func (p *OutboxPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	if err := p.mgr.Publish(ctx, topic, key, event); err != nil {
		logger.Error(ctx, "failed to store cart event", "topic", topic, "error", err)
		return err
	}
	return nil
}

// NoopPublisher 空实现，消息队列未启用时使用
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return nil
}
