// Package presence 在线状态登记
// 记录每个用户当前的实时连接，在用户上线、下线时向所有在线连接广播
package presence

import (
	"sort"
	"sync"
)

// 下行事件名
const (
	EventUserOnline       = "userOnline"
	EventUserOffline      = "userOffline"
	EventPresenceSnapshot = "presenceSnapshot"
)

// Event 推送给连接的事件，序列化后即为下行帧 {"event": ..., "data": ...}
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// UserPayload userOnline / userOffline 的数据
type UserPayload struct {
	UserId string `json:"userId"`
}

// SnapshotPayload presenceSnapshot 的数据
type SnapshotPayload struct {
	UserIds []string `json:"userIds"`
}

// Handle 一条实时连接
// Push 必须是非阻塞的，返回 false 表示该连接没有接收这条事件
type Handle interface {
	ID() string
	Push(event Event) bool
}

// Listener 观察 Registry 发出的每个事件
type Listener func(event Event)

// Registry 在线状态表
// 所有修改由同一把锁串行化，推送连接也在锁内完成；Listener 在释放锁之后调用
type Registry struct {
	mu       sync.Mutex
	handles  map[string]map[string]Handle // user -> handleID -> handle
	owners   map[string]string            // handleID -> user
	listener Listener
}

// NewRegistry 创建空的在线状态表
func NewRegistry() *Registry {
	return &Registry{
		handles: make(map[string]map[string]Handle),
		owners:  make(map[string]string),
	}
}

// SetListener 设置事件观察者，需在开始接收连接前调用
func (r *Registry) SetListener(l Listener) {
	r.mu.Lock()
	r.listener = l
	r.mu.Unlock()
}

// Connect 登记一条连接
// 用户的第一条连接会向所有在线连接广播 userOnline 和最新的在线列表；
// 非首条连接只向新连接补发在线列表。同一个 handle 重复登记不产生事件
func (r *Registry) Connect(user string, h Handle) {
	r.mu.Lock()
	if _, exists := r.owners[h.ID()]; exists {
		r.mu.Unlock()
		return
	}
	set, online := r.handles[user]
	if !online {
		set = make(map[string]Handle)
		r.handles[user] = set
	}
	set[h.ID()] = h
	r.owners[h.ID()] = user

	snapshotEvent := Event{Event: EventPresenceSnapshot, Data: SnapshotPayload{UserIds: r.onlineUsersLocked()}}
	var emitted []Event
	if !online {
		targets := r.allHandlesLocked()
		onlineEvent := Event{Event: EventUserOnline, Data: UserPayload{UserId: user}}
		push(targets, onlineEvent)
		push(targets, snapshotEvent)
		emitted = []Event{onlineEvent, snapshotEvent}
	} else {
		push([]Handle{h}, snapshotEvent)
		emitted = []Event{snapshotEvent}
	}
	listener := r.listener
	r.mu.Unlock()

	notify(listener, emitted...)
}

// Disconnect 注销一条连接，可重复调用
// 用户最后一条连接断开时向剩余连接广播 userOffline；返回是否真的删除了连接
func (r *Registry) Disconnect(handleID string) bool {
	r.mu.Lock()
	user, ok := r.owners[handleID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.owners, handleID)
	set := r.handles[user]
	delete(set, handleID)

	offline := len(set) == 0
	var emitted []Event
	if offline {
		delete(r.handles, user)
		offlineEvent := Event{Event: EventUserOffline, Data: UserPayload{UserId: user}}
		push(r.allHandlesLocked(), offlineEvent)
		emitted = []Event{offlineEvent}
	}
	listener := r.listener
	r.mu.Unlock()

	notify(listener, emitted...)
	return true
}

// IsOnline 用户当前是否至少有一条连接
func (r *Registry) IsOnline(user string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles[user]) > 0
}

// LiveHandles 返回用户所有连接的快照
func (r *Registry) LiveHandles(user string) []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.handles[user]
	out := make([]Handle, 0, len(set))
	for _, h := range set {
		out = append(out, h)
	}
	return out
}

// OnlineUsers 返回排序后的在线用户列表
func (r *Registry) OnlineUsers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onlineUsersLocked()
}

func (r *Registry) onlineUsersLocked() []string {
	users := make([]string, 0, len(r.handles))
	for u := range r.handles {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

func (r *Registry) allHandlesLocked() []Handle {
	out := make([]Handle, 0, len(r.owners))
	for _, set := range r.handles {
		for _, h := range set {
			out = append(out, h)
		}
	}
	return out
}

// push 在持有锁时调用，连接收到事件的顺序与登记表的修改顺序一致
// Push 不阻塞，推送失败只影响对应连接
func push(targets []Handle, event Event) {
	for _, h := range targets {
		h.Push(event)
	}
}

func notify(listener Listener, events ...Event) {
	if listener == nil {
		return
	}
	for _, e := range events {
		listener(e)
	}
}
