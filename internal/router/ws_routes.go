// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 和在线状态相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由
// 请求示例: ws://host:port/wss?token=xxx
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	rg.GET("/wss", rt.handlers.Ws.Connect)
}

// RegisterPresenceRoutes 注册在线状态路由
func (rt *Router) RegisterPresenceRoutes(rg *gin.RouterGroup) {
	rg.GET("/presence/online", rt.handlers.Presence.OnlineUsers)
}
