package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// AddItemCommand 加购命令
type AddItemCommand struct {
	UserID    string
	ProductID uint
	Quantity  int
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	carts     domain.CartRepository
	products  domain.ProductReader
	publisher domain.EventPublisher
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	carts domain.CartRepository,
	products domain.ProductReader,
	publisher domain.EventPublisher,
) *CartCommandService {
	return &CartCommandService{
		carts:     carts,
		products:  products,
		publisher: publisher,
	}
}

// AddItem 处理加购。同一 (userID, productID) 重复加购时数量累加，
// 返回合并后的行项目
func (s *CartCommandService) AddItem(ctx context.Context, cmd AddItemCommand) (*domain.CartLineItem, error) {
	item := &domain.CartLineItem{
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
		Quantity:  cmd.Quantity,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.products.ProductExists(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	merged, err := s.carts.Upsert(ctx, item)
	if err != nil {
		return nil, err
	}

	event := domain.CartItemAddedEvent{
		UserID:    merged.UserID,
		ProductID: merged.ProductID,
		Quantity:  merged.Quantity,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.item.added", merged.UserID, event)

	return merged, nil
}

// RemoveItem 从购物车移除一行，幂等；返回是否确有移除
func (s *CartCommandService) RemoveItem(ctx context.Context, userID string, productID uint) (bool, error) {
	if userID == "" {
		return false, domain.ErrInvalidUserID
	}
	if productID == 0 {
		return false, domain.ErrInvalidProductID
	}

	removed, err := s.carts.Remove(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	event := domain.CartItemRemovedEvent{
		UserID:    userID,
		ProductID: productID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.item.removed", userID, event)

	return true, nil
}

// ClearCart 清空用户购物车
func (s *CartCommandService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidUserID
	}

	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	event := domain.CartClearedEvent{
		UserID:    userID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.cleared", userID, event)

	return nil
}
