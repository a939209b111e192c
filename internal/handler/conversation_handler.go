package handler

import (
	"devmatch_server/internal/dto/request"
	"devmatch_server/internal/infrastructure/middleware"
	"devmatch_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 私聊记录请求处理器
// 发送消息走 WebSocket，这里只提供历史查询
type ConversationHandler struct {
	conversationSvc service.ConversationService
}

// NewConversationHandler 创建处理器实例
func NewConversationHandler(conversationSvc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationSvc: conversationSvc}
}

// FetchConversations 按对方分组的全部会话
// GET /user/conversations
func (h *ConversationHandler) FetchConversations(c *gin.Context) {
	data, err := h.conversationSvc.FetchConversations(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMessageList 与某个用户的聊天记录
// GET /user/messages/:otherId
func (h *ConversationHandler) GetMessageList(c *gin.Context) {
	var req request.GetMessageListRequest
	if err := c.ShouldBindUri(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.conversationSvc.FetchConversation(c.Request.Context(), middleware.GetUserID(c), req.OtherId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
