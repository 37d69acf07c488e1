package application

import "github.com/wyfcoding/storefront/internal/cart/domain"

// CartService 购物车服务门面，聚合命令与查询两侧
type CartService struct {
	*CartCommandService
	*CartQueryService
}

// NewCartService 创建购物车服务实例
func NewCartService(
	carts domain.CartRepository,
	products domain.ProductReader,
	provider ProductProvider,
	publisher domain.EventPublisher,
) *CartService {
	return &CartService{
		CartCommandService: NewCartCommandService(carts, products, publisher),
		CartQueryService:   NewCartQueryService(carts, provider),
	}
}
