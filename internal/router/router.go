// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"devmatch_server/internal/handler"
	"devmatch_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 所有业务接口都需要认证，token 由账号服务签发
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	authed := r.Group("/")
	authed.Use(middleware.JWTAuth())

	rt.RegisterRequestRoutes(authed)   // 申请与审核
	rt.RegisterFeedRoutes(authed)      // 推荐列表
	rt.RegisterUserRoutes(authed)      // 我的申请、连接、会话
	rt.RegisterPresenceRoutes(authed)  // 在线状态
	rt.RegisterWebSocketRoutes(authed) // WebSocket
}
