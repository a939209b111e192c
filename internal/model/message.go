package model

import (
	"time"
)

// Message 私聊消息
// 对应数据库 message 表，持久化后只有 Status 会被修改
type Message struct {
	ID uint `gorm:"primarykey"`

	// Uuid 消息唯一标识，雪花算法生成，同一时间戳内单调递增
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	SendId    string `gorm:"column:send_id;index:idx_message_pair,priority:1;type:char(20);not null;comment:发送者uuid"`
	ReceiveId string `gorm:"column:receive_id;index:idx_message_pair,priority:2;index;type:char(20);not null;comment:接收者uuid"`
	Content   string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`

	// SendAt 服务端持久化时间，不接受客户端传入
	SendAt time.Time `gorm:"column:send_at;type:datetime(6);index;not null;comment:发送时间"`

	// Status 投递状态
	// 0=未实时送达, 1=已推送到接收方在线连接
	Status int8 `gorm:"column:status;not null;default:0;comment:状态，0.未发送，1.已发送"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}

// Before 按 (SendAt, Uuid) 比较先后
func (m *Message) Before(other *Message) bool {
	if m.SendAt.Equal(other.SendAt) {
		return m.Uuid < other.Uuid
	}
	return m.SendAt.Before(other.SendAt)
}
