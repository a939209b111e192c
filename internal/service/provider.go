// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"time"

	"devmatch_server/internal/config"
	"devmatch_server/internal/dao/mysql/repository"
	myredis "devmatch_server/internal/dao/redis"
	"devmatch_server/internal/infrastructure/mq"
	"devmatch_server/internal/service/conversation"
	"devmatch_server/internal/service/feed"
	"devmatch_server/internal/service/matching"
	"devmatch_server/internal/service/presence"
	"devmatch_server/internal/service/user"
	"devmatch_server/pkg/constants"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层和网关通过此结构访问各个 Service
type Services struct {
	User         UserService
	Matching     MatchingService
	Feed         FeedService
	Conversation ConversationService
	Presence     PresenceService
}

// Deps 构造 Services 所需的外部依赖
// Cache 与 Publisher 可以为 nil：不启用 Redis 时直接查库，不启用 Kafka 时不投递事件
type Deps struct {
	Repos     *repository.Repositories
	Cache     myredis.AsyncCacheService
	Publisher mq.EventPublisher
	Registry  *presence.Registry
	Feed      config.FeedConfig
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 用户资料服务作为其他服务的展示信息来源
//  2. 关系集合缓存由申请写入、推荐列表读取
//  3. 会话服务通过关系服务判断连接、通过在线状态表投递
func NewServices(deps Deps) *Services {
	registry := deps.Registry
	if registry == nil {
		registry = presence.NewRegistry()
	}

	var peers *myredis.PeerSetCache
	if deps.Cache != nil {
		ttl := deps.Feed.PeerSetTTL
		if ttl <= 0 {
			ttl = constants.REDIS_TIMEOUT
		}
		peers = myredis.NewPeerSetCache(deps.Cache, time.Duration(ttl)*time.Minute)
	}

	userSvc := user.NewUserService(deps.Repos, deps.Cache)
	matchingSvc := matching.NewMatchingService(deps.Repos, userSvc, peers, deps.Publisher)
	feedSvc := feed.NewFeedService(deps.Repos, peers, deps.Feed.DefaultPageSize, deps.Feed.MaxPageSize)
	conversationSvc := conversation.NewConversationService(deps.Repos, matchingSvc, userSvc, registry, deps.Publisher)

	return &Services{
		User:         userSvc,
		Matching:     matchingSvc,
		Feed:         feedSvc,
		Conversation: conversationSvc,
		Presence:     registry,
	}
}
