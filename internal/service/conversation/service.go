// Package conversation 私聊消息的发送、投递与历史查询
// 只有已建立连接（accepted）的两个用户之间可以发消息
package conversation

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"devmatch_server/internal/dao/mysql/repository"
	"devmatch_server/internal/dto/respond"
	"devmatch_server/internal/infrastructure/mq"
	"devmatch_server/internal/model"
	"devmatch_server/internal/service/presence"
	"devmatch_server/pkg/constants"
	"devmatch_server/pkg/enum/message/message_status_enum"
	"devmatch_server/pkg/enum/user_info/user_status_enum"
	"devmatch_server/pkg/errorx"
)

// EventMessageReceived 推送给接收方的下行事件名
const EventMessageReceived = "messageReceived"

// ConnectionChecker 判断两个用户是否已建立连接
type ConnectionChecker interface {
	AreConnected(ctx context.Context, a, b string) (bool, error)
}

// UserLookup 批量获取用户展示信息
type UserLookup interface {
	GetUserInfos(ctx context.Context, uuids []string) (map[string]respond.UserCard, error)
}

// Presence 查询用户的在线连接
type Presence interface {
	LiveHandles(user string) []presence.Handle
}

// conversationService 消息业务逻辑实现
type conversationService struct {
	repos       *repository.Repositories
	connections ConnectionChecker
	users       UserLookup
	presence    Presence
	publisher   mq.EventPublisher
	clock       *clock
}

// NewConversationService 构造函数，publisher 可以为 nil
func NewConversationService(repos *repository.Repositories, connections ConnectionChecker, users UserLookup, presence Presence, publisher mq.EventPublisher) *conversationService {
	if publisher == nil {
		publisher = mq.NoopPublisher{}
	}
	return &conversationService{
		repos:       repos,
		connections: connections,
		users:       users,
		presence:    presence,
		publisher:   publisher,
		clock:       newClock(),
	}
}

// SendMessage 发送私聊消息
// 先落库再推送；接收方不在线时消息保持未送达，之后通过历史接口拉取
func (s *conversationService) SendMessage(ctx context.Context, sender, receiver, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}
	if utf8.RuneCountInString(content) > constants.MESSAGE_MAX_RUNES {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "消息长度不能超过%d个字符", constants.MESSAGE_MAX_RUNES)
	}
	if receiver == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "接收方不能为空")
	}
	if sender == receiver {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能给自己发消息")
	}

	target, err := s.repos.User.FindByUuid(ctx, receiver)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "用户不存在")
		}
		zap.L().Error("find receiver error", zap.String("receiver", receiver), zap.Error(err))
		return nil, err
	}
	if target.Status == user_status_enum.DISABLE {
		return nil, errorx.New(errorx.CodeNotFound, "用户不存在")
	}

	connected, err := s.connections.AreConnected(ctx, sender, receiver)
	if err != nil {
		zap.L().Error("check connection error", zap.String("sender", sender), zap.String("receiver", receiver), zap.Error(err))
		return nil, err
	}
	if !connected {
		return nil, errorx.New(errorx.CodeUnauthorized, "尚未建立连接，不能发送消息")
	}

	sendAt, id := s.clock.next()
	message := &model.Message{
		Uuid:      id,
		SendId:    sender,
		ReceiveId: receiver,
		Content:   content,
		SendAt:    sendAt,
		Status:    message_status_enum.Unsent,
	}
	if err := s.repos.Message.Create(ctx, message); err != nil {
		zap.L().Error("persist message error", zap.String("sender", sender), zap.String("receiver", receiver), zap.Error(err))
		return nil, err
	}

	// 消息已经推送出去，状态回写不跟随请求取消
	if s.deliver(message) {
		if err := s.repos.Message.UpdateStatus(context.WithoutCancel(ctx), message.Uuid, message_status_enum.Sent); err != nil {
			zap.L().Warn("mark message sent error", zap.Int64("uuid", message.Uuid), zap.Error(err))
		} else {
			message.Status = message_status_enum.Sent
		}
	}

	mq.PublishAsync(s.publisher, mq.NewEvent(mq.EventMessagePersisted, model.PairKey(sender, receiver), respond.NewMessageRespond(message)))
	return message, nil
}

// deliver 推送到接收方所有在线连接，返回是否至少有一条连接接收
func (s *conversationService) deliver(message *model.Message) bool {
	if s.presence == nil {
		return false
	}
	event := presence.Event{Event: EventMessageReceived, Data: respond.NewMessageRespond(message)}
	delivered := false
	for _, h := range s.presence.LiveHandles(message.ReceiveId) {
		if h.Push(event) {
			delivered = true
		} else {
			zap.L().Warn("push message dropped", zap.String("handle", h.ID()), zap.Int64("uuid", message.Uuid))
		}
	}
	return delivered
}

// FetchConversations 获取用户所有会话
// 每个会话内消息按时间升序，会话之间按最后一条消息倒序
func (s *conversationService) FetchConversations(ctx context.Context, user string) ([]respond.ConversationRespond, error) {
	if user == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "用户ID不能为空")
	}
	messages, err := s.repos.Message.FindByUser(ctx, user)
	if err != nil {
		zap.L().Error("find user messages error", zap.String("user", user), zap.Error(err))
		return nil, err
	}

	groups := make(map[string][]model.Message)
	var peers []string
	for _, m := range messages {
		peer := m.ReceiveId
		if peer == user {
			peer = m.SendId
		}
		if _, ok := groups[peer]; !ok {
			peers = append(peers, peer)
		}
		groups[peer] = append(groups[peer], m)
	}
	if len(peers) == 0 {
		return []respond.ConversationRespond{}, nil
	}

	cards, err := s.users.GetUserInfos(ctx, peers)
	if err != nil {
		return nil, err
	}

	rsp := make([]respond.ConversationRespond, 0, len(peers))
	tails := make(map[string]*model.Message, len(peers))
	for _, peer := range peers {
		group := groups[peer]
		tails[peer] = &group[len(group)-1]
		list := make([]respond.MessageRespond, 0, len(group))
		for i := range group {
			list = append(list, respond.NewMessageRespond(&group[i]))
		}
		card, ok := cards[peer]
		if !ok {
			card = respond.UserCard{UserId: peer}
		}
		rsp = append(rsp, respond.ConversationRespond{
			Peer:        card,
			Messages:    list,
			LastMessage: list[len(list)-1],
		})
	}
	sort.SliceStable(rsp, func(i, j int) bool {
		return tails[rsp[j].Peer.UserId].Before(tails[rsp[i].Peer.UserId])
	})
	return rsp, nil
}

// FetchConversation 获取与某个用户的全部消息，按时间升序
func (s *conversationService) FetchConversation(ctx context.Context, user, peer string) ([]respond.MessageRespond, error) {
	if user == "" || peer == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "用户ID不能为空")
	}
	// 被禁用的用户仍然可以查看历史，只有不存在的用户返回 NotFound
	if _, err := s.repos.User.FindByUuid(ctx, peer); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "用户不存在")
		}
		zap.L().Error("find peer error", zap.String("peer", peer), zap.Error(err))
		return nil, err
	}
	messages, err := s.repos.Message.FindByUserIds(ctx, user, peer)
	if err != nil {
		zap.L().Error("find conversation error", zap.String("user", user), zap.String("peer", peer), zap.Error(err))
		return nil, err
	}
	rsp := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		rsp = append(rsp, respond.NewMessageRespond(&messages[i]))
	}
	return rsp, nil
}
