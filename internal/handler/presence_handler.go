package handler

import (
	"devmatch_server/internal/dto/respond"
	"devmatch_server/internal/service"

	"github.com/gin-gonic/gin"
)

// PresenceHandler 在线状态请求处理器
type PresenceHandler struct {
	presenceSvc service.PresenceService
}

// NewPresenceHandler 创建处理器实例
func NewPresenceHandler(presenceSvc service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceSvc: presenceSvc}
}

// OnlineUsers 当前在线用户
// GET /presence/online
func (h *PresenceHandler) OnlineUsers(c *gin.Context) {
	HandleSuccess(c, respond.OnlineUsersRespond{UserIds: h.presenceSvc.OnlineUsers()})
}
