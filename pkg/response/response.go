// Package response 提供统一的 HTTP 响应辅助函数
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success 返回 200 与数据
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 返回 201 与数据
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 返回 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 返回错误响应，body 形如 {"message": ..., "error": ...}
func Error(c *gin.Context, status int, message string, detail string) {
	body := gin.H{"message": message}
	if detail != "" {
		body["error"] = detail
	}
	c.JSON(status, body)
}
