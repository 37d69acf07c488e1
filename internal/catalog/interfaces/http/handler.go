package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CatalogHandler 商品目录HTTP处理器
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler 创建商品目录处理器实例
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.POST("", h.CreateProduct)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
	}
}

// ProductView 商品响应体
type ProductView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"imageUrl"`
	CategoryID  uint   `json:"categoryId"`
}

func toProductView(p *domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
	}
}

// CategoryView 分类响应体
type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toCategoryView(c *domain.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// createProductRequest 创建商品请求
type createProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"imageUrl" binding:"required"`
	CategoryID  uint            `json:"categoryId"`
}

// updateProductRequest 更新商品请求，省略的字段不修改
type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"imageUrl"`
	CategoryID  *uint            `json:"categoryId"`
}

// createCategoryRequest 创建分类请求
type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// ListProducts 列出商品，支持 search 与 categoryId 查询参数
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var categoryID uint
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid category id", err.Error())
			return
		}
		categoryID = uint(id)
	}

	products, err := h.service.ListProducts(c.Request.Context(), c.Query("search"), categoryID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list products", "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch products", err.Error())
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	response.Success(c, views)
}

// GetProduct 获取单个商品
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product id", err.Error())
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found", "")
			return
		}
		logger.Error(c.Request.Context(), "failed to get product", "product_id", id, "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch product", err.Error())
		return
	}
	response.Success(c, toProductView(product))
}

// CreateProduct 创建商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product data", err.Error())
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), application.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProduct) {
			response.Error(c, http.StatusBadRequest, "Invalid product data", err.Error())
			return
		}
		logger.Error(c.Request.Context(), "failed to create product", "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to create product", err.Error())
		return
	}
	response.Created(c, toProductView(product))
}

// UpdateProduct 更新商品
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product id", err.Error())
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product data", err.Error())
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		ID:          uint(id),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			response.Error(c, http.StatusNotFound, "Product not found", "")
		case errors.Is(err, domain.ErrInvalidProduct):
			response.Error(c, http.StatusBadRequest, "Invalid product data", err.Error())
		default:
			logger.Error(c.Request.Context(), "failed to update product", "product_id", id, "error", err)
			response.Error(c, http.StatusInternalServerError, "Failed to update product", err.Error())
		}
		return
	}
	response.Success(c, toProductView(product))
}

// DeleteProduct 删除商品
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product id", err.Error())
		return
	}

	deleted, err := h.service.DeleteProduct(c.Request.Context(), uint(id))
	if err != nil {
		logger.Error(c.Request.Context(), "failed to delete product", "product_id", id, "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete product", err.Error())
		return
	}
	if !deleted {
		response.Error(c, http.StatusNotFound, "Product not found", "")
		return
	}
	response.NoContent(c)
}

// ListCategories 列出所有分类
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list categories", "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch categories", err.Error())
		return
	}

	views := make([]CategoryView, 0, len(categories))
	for _, cat := range categories {
		views = append(views, toCategoryView(cat))
	}
	response.Success(c, views)
}

// CreateCategory 创建分类
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid category data", err.Error())
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), application.CreateCategoryCommand{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			response.Error(c, http.StatusBadRequest, "Invalid category data", err.Error())
			return
		}
		logger.Error(c.Request.Context(), "failed to create category", "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to create category", err.Error())
		return
	}
	response.Created(c, toCategoryView(category))
}
