// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层和 WebSocket 网关调用
package service

import (
	"context"

	"devmatch_server/internal/dto/respond"
	"devmatch_server/internal/model"
	"devmatch_server/internal/service/presence"
)

// MatchingService 申请与审核
type MatchingService interface {
	// SendRequest 发起 interested / ignored 申请
	SendRequest(ctx context.Context, from, to, status string) (*model.RelationshipEdge, error)
	// ReviewRequest 接收方 accepted / rejected
	ReviewRequest(ctx context.Context, reviewer, edgeId, status string) (*model.RelationshipEdge, error)
	// IncomingRequests 待审核申请列表
	IncomingRequests(ctx context.Context, user string) ([]respond.IncomingRequestRespond, error)
	// Connections 已建立连接的用户
	Connections(ctx context.Context, user string) ([]respond.ConnectionRespond, error)
	AreConnected(ctx context.Context, a, b string) (bool, error)
}

// FeedService 推荐列表
type FeedService interface {
	GetFeed(ctx context.Context, user string, page, pageSize int) (*respond.FeedRespond, error)
}

// ConversationService 私聊
type ConversationService interface {
	// SendMessage 落库并推送给接收方在线连接
	SendMessage(ctx context.Context, sender, receiver, content string) (*model.Message, error)
	// FetchConversations 按对方分组的全部会话
	FetchConversations(ctx context.Context, user string) ([]respond.ConversationRespond, error)
	// FetchConversation 与某个用户的全部消息
	FetchConversation(ctx context.Context, user, peer string) ([]respond.MessageRespond, error)
}

// UserService 用户资料（只读）
type UserService interface {
	GetUserInfo(ctx context.Context, uuid string) (*respond.UserCard, error)
	GetUserInfos(ctx context.Context, uuids []string) (map[string]respond.UserCard, error)
}

// PresenceService 在线状态
type PresenceService interface {
	Connect(user string, h presence.Handle)
	Disconnect(handleID string) bool
	IsOnline(user string) bool
	LiveHandles(user string) []presence.Handle
	OnlineUsers() []string
}
