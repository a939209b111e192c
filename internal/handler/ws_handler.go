// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"devmatch_server/internal/gateway/websocket"
	"devmatch_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler WebSocket 请求处理器
type WsHandler struct {
	gateway *websocket.Gateway
}

// NewWsHandler 创建处理器实例
func NewWsHandler(gateway *websocket.Gateway) *WsHandler {
	return &WsHandler{gateway: gateway}
}

// Connect 升级为 WebSocket 连接
// GET /wss?token=xxx
// 浏览器无法为 WebSocket 设置请求头，token 通过查询参数传递
func (h *WsHandler) Connect(c *gin.Context) {
	userId := middleware.GetUserID(c)
	if err := h.gateway.Serve(c.Writer, c.Request, userId); err != nil {
		// Upgrade 失败时已向客户端写回 HTTP 错误
		zap.L().Warn("ws upgrade failed", zap.String("user", userId), zap.Error(err))
	}
}
