package mysql

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车仓储的MySQL实现
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Upsert 原子地插入或累加数量。依赖 idx_cart_user_product 唯一索引，
// 冲突时在数据库端执行 quantity = quantity + VALUES(quantity)，
// 并发加购不会丢失增量。写入后重读取得合并后的行
func (r *CartRepository) Upsert(ctx context.Context, item *domain.CartLineItem) (*domain.CartLineItem, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("quantity + VALUES(quantity)"),
			"updated_at": gorm.Expr("VALUES(updated_at)"),
		}),
	}).Create(item).Error
	if err != nil {
		return nil, err
	}

	var merged domain.CartLineItem
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&merged).Error
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

// Remove 删除指定行，返回是否确有删除
func (r *CartRepository) Remove(ctx context.Context, userID string, productID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.CartLineItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUser 按创建顺序列出用户购物车所有行
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CartLineItem, error) {
	var items []*domain.CartLineItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByUser 清空用户购物车
func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartLineItem{}).Error
}
