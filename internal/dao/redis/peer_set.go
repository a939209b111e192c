package redis

import (
	"context"
	"time"

	"devmatch_server/pkg/constants"

	"go.uber.org/zap"
)

const peerSetWriteTimeout = 3 * time.Second

// PeerSetCache 缓存每个用户的关系用户集合（relation_peers:<uid>）
// 集合中含有 RelationPeersLoaded 标记时才说明它是从数据库完整加载的；
// 关系边只增不删，所以集合只做并集写入，并发的重建和增量写入不会丢成员
type PeerSetCache struct {
	cache CacheService
	ttl   time.Duration
}

// NewPeerSetCache cache 为 nil 时返回的实例所有操作都是空操作
func NewPeerSetCache(cache CacheService, ttl time.Duration) *PeerSetCache {
	return &PeerSetCache{cache: cache, ttl: ttl}
}

func (p *PeerSetCache) enabled() bool {
	return p != nil && p.cache != nil
}

func peerSetKey(user string) string {
	return constants.RelationPeersKeyPrefix + user
}

// Load 读取关系集合，ok 为 false 表示缓存不完整，需要回源
func (p *PeerSetCache) Load(ctx context.Context, user string) (peers []string, ok bool, err error) {
	if !p.enabled() {
		return nil, false, nil
	}
	members, err := p.cache.GetSetMembers(ctx, peerSetKey(user))
	if err != nil {
		return nil, false, err
	}
	peers = make([]string, 0, len(members))
	for _, m := range members {
		if m == constants.RelationPeersLoaded {
			ok = true
			continue
		}
		peers = append(peers, m)
	}
	if !ok {
		return nil, false, nil
	}
	return peers, true, nil
}

// Fill 写入从数据库加载的完整集合并打上标记
func (p *PeerSetCache) Fill(ctx context.Context, user string, peers []string) error {
	if !p.enabled() {
		return nil
	}
	members := make([]interface{}, 0, len(peers)+1)
	for _, peer := range peers {
		members = append(members, peer)
	}
	members = append(members, constants.RelationPeersLoaded)
	return p.cache.AddToSet(ctx, peerSetKey(user), p.ttl, members...)
}

// Invalidate 写关系边之前删除双方的集合
// 之后任何一步失败都只会让下次读取回源，不会留下缺成员却带标记的集合
func (p *PeerSetCache) Invalidate(ctx context.Context, a, b string) {
	if !p.enabled() {
		return
	}
	ctx, cancel := detach(ctx)
	defer cancel()
	if err := p.cache.Delete(ctx, peerSetKey(a), peerSetKey(b)); err != nil {
		zap.L().Warn("invalidate relation peer set failed", zap.String("a", a), zap.String("b", b), zap.Error(err))
	}
}

// AddPeer 新关系边提交后把双方写入彼此的集合
// 写入失败时删除两个 key，下次读取回源重建
func (p *PeerSetCache) AddPeer(ctx context.Context, a, b string) {
	if !p.enabled() {
		return
	}
	ctx, cancel := detach(ctx)
	defer cancel()
	errA := p.cache.AddToSet(ctx, peerSetKey(a), p.ttl, b)
	errB := p.cache.AddToSet(ctx, peerSetKey(b), p.ttl, a)
	if errA == nil && errB == nil {
		return
	}
	zap.L().Warn("update relation peer set failed, invalidating",
		zap.String("a", a), zap.String("b", b), zap.Errors("errors", []error{errA, errB}))
	if err := p.cache.Delete(ctx, peerSetKey(a), peerSetKey(b)); err != nil {
		zap.L().Error("invalidate relation peer set failed", zap.String("a", a), zap.String("b", b), zap.Error(err))
	}
}

// detach 关系边已经落库，缓存维护不能跟着请求一起取消
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), peerSetWriteTimeout)
}
