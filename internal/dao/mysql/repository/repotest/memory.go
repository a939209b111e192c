// Package repotest 提供进程内的 Repository 实现，供 Service 和 Handler 测试使用
// 行为与 MySQL 实现保持一致：错误码、排序、唯一约束、条件更新
package repotest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"devmatch_server/internal/dao/mysql/repository"
	"devmatch_server/internal/model"
	"devmatch_server/pkg/enum/relationship/relationship_status_enum"
	"devmatch_server/pkg/enum/user_info/user_status_enum"
	"devmatch_server/pkg/errorx"
)

// ErrInjected FailMessageWrites / FailStatusUpdates 打开后写操作返回的底层错误
var ErrInjected = errors.New("repotest: injected failure")

// Store 所有表共用一把锁
type Store struct {
	mu       sync.Mutex
	users    []model.UserInfo
	edges    []model.RelationshipEdge
	messages []model.Message
	nextID   uint
	failMsgs bool
	failAcks bool
}

// New 创建空的 Store
func New() *Store {
	return &Store{}
}

// Repositories 返回以 Store 为后端的 Repository 聚合
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:         userRepo{s},
		Relationship: relationshipRepo{s},
		Message:      messageRepo{s},
	}
}

// AddUser 插入用户，按插入顺序分配自增 ID
func (s *Store) AddUser(uuid, nickname string) *model.UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := model.UserInfo{Uuid: uuid, Nickname: nickname, Status: user_status_enum.NORMAL}
	u.ID = s.nextID
	s.users = append(s.users, u)
	return &u
}

// DisableUser 将用户状态设为禁用
func (s *Store) DisableUser(uuid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Uuid == uuid {
			s.users[i].Status = user_status_enum.DISABLE
		}
	}
}

// FailMessageWrites 控制消息写入是否失败
func (s *Store) FailMessageWrites(on bool) {
	s.mu.Lock()
	s.failMsgs = on
	s.mu.Unlock()
}

// FailStatusUpdates 控制消息状态更新是否失败
func (s *Store) FailStatusUpdates(on bool) {
	s.mu.Lock()
	s.failAcks = on
	s.mu.Unlock()
}

// Edges 关系边快照
func (s *Store) Edges() []model.RelationshipEdge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.RelationshipEdge(nil), s.edges...)
}

// Messages 消息快照，按写入顺序
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...)
}

func notFound(format string, args ...any) error {
	return errorx.Newf(errorx.CodeNotFound, format, args...)
}

// ==================== User ====================

type userRepo struct{ s *Store }

func (r userRepo) FindByUuid(_ context.Context, uuid string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Uuid == uuid {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, notFound("查询用户 uuid=%s", uuid)
}

func (r userRepo) FindByUuids(_ context.Context, uuids []string) ([]model.UserInfo, error) {
	want := make(map[string]bool, len(uuids))
	for _, id := range uuids {
		want[id] = true
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.UserInfo{}
	for _, u := range r.s.users {
		if want[u.Uuid] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r userRepo) FindFeedPage(_ context.Context, excluded []string, offset, limit int) ([]model.UserInfo, error) {
	skip := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	candidates := []model.UserInfo{}
	for _, u := range r.s.users {
		if u.Status == user_status_enum.NORMAL && !skip[u.Uuid] {
			candidates = append(candidates, u)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	if offset >= len(candidates) {
		return []model.UserInfo{}, nil
	}
	end := offset + limit
	if end > len(candidates) {
		end = len(candidates)
	}
	return candidates[offset:end], nil
}

// ==================== Relationship ====================

type relationshipRepo struct{ s *Store }

func (r relationshipRepo) Create(_ context.Context, edge *model.RelationshipEdge) error {
	edge.PairKey = model.PairKey(edge.FromId, edge.ToId)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.edges {
		if e.PairKey == edge.PairKey || e.Uuid == edge.Uuid {
			return errorx.Newf(errorx.CodeDuplicateRelationship, "创建关系 %s", edge.PairKey)
		}
	}
	r.s.nextID++
	now := time.Now()
	edge.ID = r.s.nextID
	edge.CreatedAt, edge.UpdatedAt = now, now
	r.s.edges = append(r.s.edges, *edge)
	return nil
}

func (r relationshipRepo) FindByUuid(_ context.Context, uuid string) (*model.RelationshipEdge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.edges {
		if e.Uuid == uuid {
			return &e, nil
		}
	}
	return nil, notFound("查询关系 uuid=%s", uuid)
}

func (r relationshipRepo) FindByPair(_ context.Context, a, b string) (*model.RelationshipEdge, error) {
	key := model.PairKey(a, b)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.edges {
		if e.PairKey == key {
			return &e, nil
		}
	}
	return nil, notFound("查询关系 pair=%s", key)
}

func (r relationshipRepo) FindPeersOf(_ context.Context, user string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	peers := []string{}
	for i := range r.s.edges {
		e := &r.s.edges[i]
		if e.FromId == user || e.ToId == user {
			peers = append(peers, e.Peer(user))
		}
	}
	return peers, nil
}

func (r relationshipRepo) FindIncomingPending(_ context.Context, user string) ([]model.RelationshipEdge, error) {
	return r.filter(func(e *model.RelationshipEdge) bool {
		return e.ToId == user && e.Status == relationship_status_enum.INTERESTED
	}), nil
}

func (r relationshipRepo) FindAccepted(_ context.Context, user string) ([]model.RelationshipEdge, error) {
	return r.filter(func(e *model.RelationshipEdge) bool {
		return (e.FromId == user || e.ToId == user) && e.Status == relationship_status_enum.ACCEPTED
	}), nil
}

func (r relationshipRepo) filter(keep func(e *model.RelationshipEdge) bool) []model.RelationshipEdge {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.RelationshipEdge{}
	for i := range r.s.edges {
		if keep(&r.s.edges[i]) {
			out = append(out, r.s.edges[i])
		}
	}
	return out
}

func (r relationshipRepo) UpdateStatusIfPending(_ context.Context, uuid, status string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.edges {
		e := &r.s.edges[i]
		if e.Uuid == uuid && e.Status == relationship_status_enum.INTERESTED {
			e.Status = status
			e.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

// ==================== Message ====================

type messageRepo struct{ s *Store }

func (r messageRepo) Create(_ context.Context, message *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failMsgs {
		return errorx.Wrapf(ErrInjected, errorx.CodeDBError, "创建消息 sender=%s", message.SendId)
	}
	r.s.nextID++
	message.ID = r.s.nextID
	r.s.messages = append(r.s.messages, *message)
	return nil
}

func (r messageRepo) FindByUserIds(_ context.Context, one, two string) ([]model.Message, error) {
	return r.sorted(func(m *model.Message) bool {
		return (m.SendId == one && m.ReceiveId == two) || (m.SendId == two && m.ReceiveId == one)
	}), nil
}

func (r messageRepo) FindByUser(_ context.Context, user string) ([]model.Message, error) {
	return r.sorted(func(m *model.Message) bool {
		return m.SendId == user || m.ReceiveId == user
	}), nil
}

func (r messageRepo) sorted(keep func(m *model.Message) bool) []model.Message {
	r.s.mu.Lock()
	out := []model.Message{}
	for i := range r.s.messages {
		if keep(&r.s.messages[i]) {
			out = append(out, r.s.messages[i])
		}
	}
	r.s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(&out[j]) })
	return out
}

func (r messageRepo) UpdateStatus(_ context.Context, uuid int64, status int8) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failAcks {
		return ErrInjected
	}
	for i := range r.s.messages {
		if r.s.messages[i].Uuid == uuid {
			r.s.messages[i].Status = status
			return nil
		}
	}
	return notFound("更新消息状态 uuid=%d", uuid)
}
