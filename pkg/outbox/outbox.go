// Package outbox 提供事务性 Outbox：领域事件先落库，由 relay 异步外发到消息队列
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/utils"
	"gorm.io/gorm"
)

// 消息状态
const (
	StatusPending   = 0
	StatusPublished = 1
)

// Message Outbox 消息记录
type Message struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	Topic       string     `gorm:"column:topic;type:varchar(128);not null"`
	Key         string     `gorm:"column:message_key;type:varchar(128);not null"`
	Payload     []byte     `gorm:"column:payload;type:blob;not null"`
	Status      int8       `gorm:"column:status;not null;default:0;index:idx_outbox_status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

// TableName 指定表名
func (Message) TableName() string { return "outbox_messages" }

// Manager 负责消息的写入与状态管理
type Manager struct {
	db    *gorm.DB
	idgen *utils.SnowflakeID
}

// NewManager 创建 Outbox 管理器
func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		db:    db,
		idgen: utils.NewSnowflakeID(1),
	}
}

// DB 返回底层数据库句柄
func (m *Manager) DB() *gorm.DB { return m.db }

// Publish 将事件序列化后写入 outbox 表（非事务内）
func (m *Manager) Publish(ctx context.Context, topic, key string, event any) error {
	return m.PublishInTx(ctx, m.db, topic, key, event)
}

// PublishInTx 在给定事务中写入 outbox 表，与业务写入保持原子
func (m *Manager) PublishInTx(ctx context.Context, tx *gorm.DB, topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox event: %w", err)
	}

	msg := &Message{
		ID:      m.idgen.Generate(),
		Topic:   topic,
		Key:     key,
		Payload: payload,
		Status:  StatusPending,
	}

	if err := tx.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to store outbox message: %w", err)
	}
	return nil
}

// Pending 拉取待发送消息
func (m *Manager) Pending(ctx context.Context, limit int) ([]Message, error) {
	var msgs []Message
	err := m.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("id").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// MarkPublished 标记消息为已发送
func (m *Manager) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return m.db.WithContext(ctx).Model(&Message{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": StatusPublished, "published_at": &now}).Error
}

// PushFunc 外发函数，由调用方绑定具体的 broker producer
type PushFunc func(ctx context.Context, topic, key string, payload []byte) error

// Relay 轮询 outbox 表并将待发送消息推送到 broker
type Relay struct {
	mgr      *Manager
	push     PushFunc
	batch    int
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewRelay 创建 relay
func NewRelay(mgr *Manager, push PushFunc, batch int, interval time.Duration) *Relay {
	if batch <= 0 {
		batch = 100
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Relay{
		mgr:      mgr,
		push:     push,
		batch:    batch,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动后台轮询
func (r *Relay) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.drain(context.Background())
			}
		}
	}()
}

// Stop 停止轮询并等待当前批次完成
func (r *Relay) Stop() {
	close(r.stop)
	<-r.done
}

// drain 处理一批待发送消息
func (r *Relay) drain(ctx context.Context) {
	msgs, err := r.mgr.Pending(ctx, r.batch)
	if err != nil {
		logger.Error(ctx, "outbox: failed to fetch pending messages", "error", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	published := make([]int64, 0, len(msgs))
	for _, msg := range msgs {
		err := utils.Retry(ctx, utils.DefaultRetryConfig(), func() error {
			return r.push(ctx, msg.Topic, msg.Key, msg.Payload)
		})
		if err != nil {
			// 推送失败的消息保持 pending，下一轮重试
			logger.Warn(ctx, "outbox: failed to push message, will retry",
				"id", msg.ID, "topic", msg.Topic, "error", err)
			break
		}
		published = append(published, msg.ID)
	}

	if err := r.mgr.MarkPublished(ctx, published); err != nil {
		logger.Error(ctx, "outbox: failed to mark messages published", "error", err)
	}
}
