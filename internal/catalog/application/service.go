package application

import "github.com/wyfcoding/storefront/internal/catalog/domain"

// CatalogService 商品目录服务门面，聚合命令与查询两侧
type CatalogService struct {
	*CatalogCommandService
	*CatalogQueryService
}

// NewCatalogService 创建商品目录服务实例
func NewCatalogService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	cache ProductCache,
	publisher domain.EventPublisher,
) *CatalogService {
	return &CatalogService{
		CatalogCommandService: NewCatalogCommandService(products, categories, cache, publisher),
		CatalogQueryService:   NewCatalogQueryService(products, categories, cache),
	}
}
