// Package feed 推荐列表：按注册顺序列出与当前用户没有任何关系边的用户
package feed

import (
	"context"

	"go.uber.org/zap"

	"devmatch_server/internal/dao/mysql/repository"
	myredis "devmatch_server/internal/dao/redis"
	"devmatch_server/internal/dto/respond"
	"devmatch_server/pkg/constants"
)

// feedService 推荐列表业务逻辑实现
type feedService struct {
	repos           *repository.Repositories
	peers           *myredis.PeerSetCache
	defaultPageSize int
	maxPageSize     int
}

// NewFeedService 构造函数
// defaultPageSize / maxPageSize 不大于 0 时使用常量默认值
func NewFeedService(repos *repository.Repositories, peers *myredis.PeerSetCache, defaultPageSize, maxPageSize int) *feedService {
	if defaultPageSize <= 0 {
		defaultPageSize = constants.FEED_DEFAULT_LIMIT
	}
	if maxPageSize <= 0 {
		maxPageSize = constants.FEED_MAX_LIMIT
	}
	if defaultPageSize > maxPageSize {
		defaultPageSize = maxPageSize
	}
	return &feedService{
		repos:           repos,
		peers:           peers,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// GetFeed 获取推荐列表
// page 小于 1 按 1 处理；pageSize 缺省取默认值，超过上限截断
func (f *feedService) GetFeed(ctx context.Context, user string, page, pageSize int) (*respond.FeedRespond, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = f.defaultPageSize
	}
	if pageSize > f.maxPageSize {
		pageSize = f.maxPageSize
	}

	hidden, err := f.hiddenUsers(ctx, user)
	if err != nil {
		return nil, err
	}
	excluded := append(hidden, user)

	users, err := f.repos.User.FindFeedPage(ctx, excluded, (page-1)*pageSize, pageSize)
	if err != nil {
		zap.L().Error("find feed page error", zap.String("user", user), zap.Int("page", page), zap.Error(err))
		return nil, err
	}

	cards := make([]respond.UserCard, 0, len(users))
	for i := range users {
		cards = append(cards, respond.NewUserCard(&users[i]))
	}
	return &respond.FeedRespond{Users: cards, Page: page, PageSize: pageSize}, nil
}

// hiddenUsers 与 user 存在任意关系边的用户，优先读缓存
func (f *feedService) hiddenUsers(ctx context.Context, user string) ([]string, error) {
	peers, ok, err := f.peers.Load(ctx, user)
	if err != nil {
		zap.L().Warn("load relation peer set error, falling back to db", zap.String("user", user), zap.Error(err))
	}
	if ok {
		return peers, nil
	}

	peers, err = f.repos.Relationship.FindPeersOf(ctx, user)
	if err != nil {
		zap.L().Error("find relation peers error", zap.String("user", user), zap.Error(err))
		return nil, err
	}
	if err := f.peers.Fill(ctx, user, peers); err != nil {
		zap.L().Warn("fill relation peer set error", zap.String("user", user), zap.Error(err))
	}
	return peers, nil
}
