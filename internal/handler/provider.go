// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 通过构造函数注入 Service 依赖
package handler

import (
	"devmatch_server/internal/gateway/websocket"
	"devmatch_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Matching     *MatchingHandler
	Feed         *FeedHandler
	Conversation *ConversationHandler
	Presence     *PresenceHandler
	Ws           *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
// svc: Service 层聚合实例
// gateway: WebSocket 网关
func NewHandlers(svc *service.Services, gateway *websocket.Gateway) *Handlers {
	return &Handlers{
		Matching:     NewMatchingHandler(svc.Matching),
		Feed:         NewFeedHandler(svc.Feed),
		Conversation: NewConversationHandler(svc.Conversation),
		Presence:     NewPresenceHandler(svc.Presence),
		Ws:           NewWsHandler(gateway),
	}
}
