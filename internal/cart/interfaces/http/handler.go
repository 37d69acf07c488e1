package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	service *application.CartService
	metrics *metrics.Metrics
}

// NewCartHandler 创建购物车处理器实例；metrics 可为 nil
func NewCartHandler(service *application.CartService, m *metrics.Metrics) *CartHandler {
	return &CartHandler{service: service, metrics: m}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cart := router.Group("/cart")
	{
		cart.POST("", h.AddItem)
		cart.GET("/:userId", h.GetCart)
		cart.DELETE("/:userId", h.ClearCart)
		cart.DELETE("/:userId/:productId", h.RemoveItem)
	}
}

// addItemRequest 加购请求；quantity 省略时默认为 1
type addItemRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID uint   `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// lineItemView 行项目响应体
type lineItemView struct {
	ID        uint   `json:"id"`
	UserID    string `json:"userId"`
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddItem 加购；重复加购同一商品时返回合并后的行
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid cart item data", err.Error())
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.service.AddItem(c.Request.Context(), application.AddItemCommand{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUserID),
			errors.Is(err, domain.ErrInvalidProductID),
			errors.Is(err, domain.ErrInvalidQuantity):
			response.Error(c, http.StatusBadRequest, "Invalid cart item data", err.Error())
		case errors.Is(err, domain.ErrProductNotFound):
			response.Error(c, http.StatusNotFound, "Product not found", "")
		default:
			logger.Error(c.Request.Context(), "failed to add cart item",
				"user_id", req.UserID, "product_id", req.ProductID, "error", err)
			response.Error(c, http.StatusInternalServerError, "Failed to add item to cart", err.Error())
		}
		return
	}

	if h.metrics != nil {
		h.metrics.CartAddsTotal.Inc()
	}
	response.Created(c, lineItemView{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	})
}

// GetCart 获取用户购物车，含商品详情与合计
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.Param("userId")

	view, err := h.service.ListCart(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidUserID) {
			response.Error(c, http.StatusBadRequest, "Invalid user id", err.Error())
			return
		}
		logger.Error(c.Request.Context(), "failed to fetch cart", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch cart", err.Error())
		return
	}
	response.Success(c, view)
}

// RemoveItem 移除一行，幂等；目标不存在时返回404
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := c.Param("userId")
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product id", err.Error())
		return
	}

	removed, err := h.service.RemoveItem(c.Request.Context(), userID, uint(productID))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidUserID) || errors.Is(err, domain.ErrInvalidProductID) {
			response.Error(c, http.StatusBadRequest, "Invalid cart item data", err.Error())
			return
		}
		logger.Error(c.Request.Context(), "failed to remove cart item",
			"user_id", userID, "product_id", productID, "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to remove item from cart", err.Error())
		return
	}
	if !removed {
		response.Error(c, http.StatusNotFound, "Cart item not found", "")
		return
	}

	if h.metrics != nil {
		h.metrics.CartRemovesTotal.Inc()
	}
	response.NoContent(c)
}

// ClearCart 清空用户购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := c.Param("userId")

	if err := h.service.ClearCart(c.Request.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrInvalidUserID) {
			response.Error(c, http.StatusBadRequest, "Invalid user id", err.Error())
			return
		}
		logger.Error(c.Request.Context(), "failed to clear cart", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to clear cart", err.Error())
		return
	}
	response.NoContent(c)
}
