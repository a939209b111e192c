// Package user 用户资料只读服务，为其他业务提供展示信息
package user

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"devmatch_server/internal/dao/mysql/repository"
	myredis "devmatch_server/internal/dao/redis"
	"devmatch_server/internal/dto/respond"
	"devmatch_server/pkg/constants"
	"devmatch_server/pkg/errorx"
)

// userInfoService 用户资料读取，Redis 读穿缓存
type userInfoService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewUserService 构造函数，cache 为 nil 时直接查库
func NewUserService(repos *repository.Repositories, cache myredis.AsyncCacheService) *userInfoService {
	return &userInfoService{repos: repos, cache: cache}
}

func cacheKey(uuid string) string {
	return constants.UserInfoKeyPrefix + uuid
}

// GetUserInfo 获取单个用户的展示信息
func (u *userInfoService) GetUserInfo(ctx context.Context, uuid string) (*respond.UserCard, error) {
	if uuid == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "用户ID不能为空")
	}
	if card, ok := u.fromCache(ctx, uuid); ok {
		return &card, nil
	}

	user, err := u.repos.User.FindByUuid(ctx, uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "用户不存在")
		}
		zap.L().Error("find user error", zap.String("uuid", uuid), zap.Error(err))
		return nil, err
	}

	card := respond.NewUserCard(user)
	u.writeCache([]respond.UserCard{card})
	return &card, nil
}

// GetUserInfos 批量获取展示信息，不存在的用户不会出现在结果中
func (u *userInfoService) GetUserInfos(ctx context.Context, uuids []string) (map[string]respond.UserCard, error) {
	result := make(map[string]respond.UserCard, len(uuids))
	misses := make([]string, 0, len(uuids))
	seen := make(map[string]struct{}, len(uuids))
	for _, id := range uuids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if card, ok := u.fromCache(ctx, id); ok {
			result[id] = card
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return result, nil
	}

	users, err := u.repos.User.FindByUuids(ctx, misses)
	if err != nil {
		zap.L().Error("batch find users error", zap.Int("count", len(misses)), zap.Error(err))
		return nil, err
	}
	loaded := make([]respond.UserCard, 0, len(users))
	for i := range users {
		card := respond.NewUserCard(&users[i])
		result[card.UserId] = card
		loaded = append(loaded, card)
	}
	u.writeCache(loaded)
	return result, nil
}

func (u *userInfoService) fromCache(ctx context.Context, uuid string) (respond.UserCard, bool) {
	var card respond.UserCard
	if u.cache == nil {
		return card, false
	}
	cached, err := u.cache.Get(ctx, cacheKey(uuid))
	if err != nil {
		zap.L().Warn("get user info cache error", zap.String("uuid", uuid), zap.Error(err))
		return card, false
	}
	if cached == "" {
		return card, false
	}
	if err := json.Unmarshal([]byte(cached), &card); err != nil {
		zap.L().Error("unmarshal user info cache error", zap.String("uuid", uuid), zap.Error(err))
		return card, false
	}
	return card, true
}

// writeCache 异步回写缓存
func (u *userInfoService) writeCache(cards []respond.UserCard) {
	if u.cache == nil || len(cards) == 0 {
		return
	}
	u.cache.SubmitTask(func() {
		for _, card := range cards {
			raw, err := json.Marshal(card)
			if err != nil {
				zap.L().Error("marshal user info cache error", zap.Error(err))
				continue
			}
			if err := u.cache.Set(context.Background(), cacheKey(card.UserId), string(raw), constants.USER_INFO_CACHE_TTL); err != nil {
				zap.L().Warn("set user info cache error", zap.String("uuid", card.UserId), zap.Error(err))
			}
		}
	})
}
