package handler

import (
	"devmatch_server/internal/dto/request"
	"devmatch_server/internal/infrastructure/middleware"
	"devmatch_server/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedHandler 推荐列表请求处理器
type FeedHandler struct {
	feedSvc service.FeedService
}

// NewFeedHandler 创建处理器实例
func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{feedSvc: feedSvc}
}

// GetFeed 分页获取推荐用户
// GET /feed?page=&limit=
func (h *FeedHandler) GetFeed(c *gin.Context) {
	var req request.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.feedSvc.GetFeed(c.Request.Context(), middleware.GetUserID(c), req.Page, req.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
