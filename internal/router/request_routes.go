package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRequestRoutes 注册申请相关路由
func (rt *Router) RegisterRequestRoutes(rg *gin.RouterGroup) {
	requestGroup := rg.Group("/request")
	{
		requestGroup.POST("/send/:status/:toUserId", rt.handlers.Matching.SendRequest)     // interested / ignored
		requestGroup.POST("/review/:status/:requestId", rt.handlers.Matching.ReviewRequest) // accepted / rejected
	}
}
