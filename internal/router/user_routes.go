package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterFeedRoutes 注册推荐列表路由
func (rt *Router) RegisterFeedRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed", rt.handlers.Feed.GetFeed)
}

// RegisterUserRoutes 注册当前用户视角的查询路由
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.GET("/requests", rt.handlers.Matching.IncomingRequests)
		userGroup.GET("/connections", rt.handlers.Matching.Connections)
		userGroup.GET("/conversations", rt.handlers.Conversation.FetchConversations)
		userGroup.GET("/messages/:otherId", rt.handlers.Conversation.GetMessageList)
	}
}
