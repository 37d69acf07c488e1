package catalogclient

import (
	"context"
	"errors"

	"github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CatalogReader 进程内商品目录适配器，
// 同时实现购物车侧的存在性校验与详情读取端口
type CatalogReader struct {
	catalog *catalogapp.CatalogService
}

// NewCatalogReader 创建适配器实例
func NewCatalogReader(catalog *catalogapp.CatalogService) *CatalogReader {
	return &CatalogReader{catalog: catalog}
}

var _ cartdomain.ProductReader = (*CatalogReader)(nil)
var _ application.ProductProvider = (*CatalogReader)(nil)

// ProductExists 判断商品是否存在
func (r *CatalogReader) ProductExists(ctx context.Context, productID uint) (bool, error) {
	_, err := r.catalog.GetProduct(ctx, productID)
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetProduct 读取商品快照，商品不存在时返回 nil
func (r *CatalogReader) GetProduct(ctx context.Context, productID uint) (*application.ProductInfo, error) {
	product, err := r.catalog.GetProduct(ctx, productID)
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &application.ProductInfo{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		ImageURL: product.ImageURL,
	}, nil
}
