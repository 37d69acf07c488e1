// Package mirror 维护购物车的客户端镜像：每次变更后全量持久化，
// 重启后从存储恢复，并可与服务端状态对账
package mirror

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Entry 镜像中的一行，携带商品快照用于离线展示与合计
type Entry struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl"`
	Quantity  int             `json:"quantity"`
}

// Mirror 购物车镜像。单一持有者使用，不做内部加锁
type Mirror struct {
	storage Storage
	entries []Entry
}

// New 创建镜像并从存储恢复既有快照
func New(storage Storage) (*Mirror, error) {
	m := &Mirror{storage: storage}

	data, err := storage.Load()
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &m.entries); err != nil {
			return nil, fmt.Errorf("failed to decode cart mirror snapshot: %w", err)
		}
	}
	return m, nil
}

func (m *Mirror) find(productID uint) int {
	for i := range m.entries {
		if m.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// flush 持久化当前状态；失败只告警，镜像内存状态保持有效
func (m *Mirror) flush() {
	data, err := json.Marshal(m.entries)
	if err != nil {
		logger.Warn(context.Background(), "failed to encode cart mirror", "error", err)
		return
	}
	if err := m.storage.Save(data); err != nil {
		logger.Warn(context.Background(), "failed to persist cart mirror", "error", err)
	}
}

// AddItem 加入一行；同一商品已存在时数量累加
func (m *Mirror) AddItem(entry Entry) {
	if entry.Quantity <= 0 {
		return
	}
	if i := m.find(entry.ProductID); i >= 0 {
		m.entries[i].Quantity += entry.Quantity
	} else {
		m.entries = append(m.entries, entry)
	}
	m.flush()
}

// SetQuantity 以服务端确认的数量覆盖一行；商品不存在则插入，
// 数量小于等于零则移除该行
func (m *Mirror) SetQuantity(entry Entry, quantity int) {
	i := m.find(entry.ProductID)
	switch {
	case quantity <= 0:
		if i >= 0 {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
		}
	case i >= 0:
		m.entries[i].Quantity = quantity
	default:
		entry.Quantity = quantity
		m.entries = append(m.entries, entry)
	}
	m.flush()
}

// UpdateQuantity 更新既有行的数量；数量小于等于零等同于移除
func (m *Mirror) UpdateQuantity(productID uint, quantity int) {
	i := m.find(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
	} else {
		m.entries[i].Quantity = quantity
	}
	m.flush()
}

// RemoveItem 移除一行，幂等；返回是否确有移除
func (m *Mirror) RemoveItem(productID uint) bool {
	i := m.find(productID)
	if i < 0 {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	m.flush()
	return true
}

// Clear 清空镜像
func (m *Mirror) Clear() {
	m.entries = nil
	m.flush()
}

// Reconcile 以服务端状态为准重建镜像
func (m *Mirror) Reconcile(server []Entry) {
	entries := make([]Entry, 0, len(server))
	for _, e := range server {
		if e.Quantity > 0 {
			entries = append(entries, e)
		}
	}
	m.entries = entries
	m.flush()
}

// Items 返回当前所有行的副本
func (m *Mirror) Items() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// TotalItems 返回商品总件数
func (m *Mirror) TotalItems() int {
	total := 0
	for i := range m.entries {
		total += m.entries[i].Quantity
	}
	return total
}

// TotalPrice 返回商品总金额
func (m *Mirror) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range m.entries {
		total = total.Add(m.entries[i].Price.Mul(decimal.NewFromInt(int64(m.entries[i].Quantity))))
	}
	return total
}
