package respond

import (
	"strconv"
	"time"

	"devmatch_server/internal/model"
)

// MessageRespond 消息
// uuid 是雪花 ID，以字符串返回避免前端精度丢失
type MessageRespond struct {
	Uuid      string    `json:"uuid"`
	SendId    string    `json:"sendId"`
	ReceiveId string    `json:"receiveId"`
	Content   string    `json:"content"`
	SendAt    time.Time `json:"sendAt"`
	Status    int8      `json:"status"`
}

// NewMessageRespond 从消息构建响应
func NewMessageRespond(m *model.Message) MessageRespond {
	return MessageRespond{
		Uuid:      strconv.FormatInt(m.Uuid, 10),
		SendId:    m.SendId,
		ReceiveId: m.ReceiveId,
		Content:   m.Content,
		SendAt:    m.SendAt,
		Status:    m.Status,
	}
}

// ConversationRespond 与某个用户的会话
type ConversationRespond struct {
	Peer        UserCard         `json:"peer"`
	Messages    []MessageRespond `json:"messages"`
	LastMessage MessageRespond   `json:"lastMessage"`
}
