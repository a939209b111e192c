// Package handler 提供 HTTP 请求处理器
// 本文件处理申请与审核相关的 API 请求
package handler

import (
	"devmatch_server/internal/dto/request"
	"devmatch_server/internal/infrastructure/middleware"
	"devmatch_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MatchingHandler 申请与审核请求处理器
type MatchingHandler struct {
	matchingSvc service.MatchingService
}

// NewMatchingHandler 创建处理器实例
func NewMatchingHandler(matchingSvc service.MatchingService) *MatchingHandler {
	return &MatchingHandler{matchingSvc: matchingSvc}
}

// SendRequest 发起申请
// POST /request/send/:status/:toUserId
// 响应: {edgeId}
func (h *MatchingHandler) SendRequest(c *gin.Context) {
	var req request.SendRelationshipRequest
	if err := c.ShouldBindUri(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	edge, err := h.matchingSvc.SendRequest(c.Request.Context(), middleware.GetUserID(c), req.ToUserId, req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"edgeId": edge.Uuid})
}

// ReviewRequest 审核申请
// POST /request/review/:status/:requestId
// 响应: {edgeId, status}
func (h *MatchingHandler) ReviewRequest(c *gin.Context) {
	var req request.ReviewRelationshipRequest
	if err := c.ShouldBindUri(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	edge, err := h.matchingSvc.ReviewRequest(c.Request.Context(), middleware.GetUserID(c), req.RequestId, req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"edgeId": edge.Uuid, "status": edge.Status})
}

// IncomingRequests 待我审核的申请
// GET /user/requests
func (h *MatchingHandler) IncomingRequests(c *gin.Context) {
	data, err := h.matchingSvc.IncomingRequests(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Connections 已建立连接的用户
// GET /user/connections
func (h *MatchingHandler) Connections(c *gin.Context) {
	data, err := h.matchingSvc.Connections(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
