package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// ProductCache 商品读缓存端口；实现缺失时查询服务直接访问仓储
type ProductCache interface {
	GetProduct(ctx context.Context, id uint) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	InvalidateProduct(ctx context.Context, id uint) error
}

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	cache      ProductCache
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	cache ProductCache,
) *CatalogQueryService {
	return &CatalogQueryService{
		products:   products,
		categories: categories,
		cache:      cache,
	}
}

// GetProduct 根据ID获取商品信息，优先走缓存
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	if s.cache != nil {
		if product, err := s.cache.GetProduct(ctx, id); err == nil && product != nil {
			return product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			logger.Warn(ctx, "failed to cache product", "product_id", id, "error", err)
		}
	}

	return product, nil
}

// ListProducts 按可选的搜索词与分类过滤列出商品
func (s *CatalogQueryService) ListProducts(ctx context.Context, search string, categoryID uint) ([]*domain.Product, error) {
	return s.products.List(ctx, search, categoryID)
}

// GetCategory 根据ID获取分类
func (s *CatalogQueryService) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// ListCategories 列出所有分类
func (s *CatalogQueryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}
