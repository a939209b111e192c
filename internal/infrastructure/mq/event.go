// Package mq 领域事件投递
// 关系创建、关系审核、消息持久化之后发布事件，投递失败不影响业务操作
package mq

import (
	"context"
	"encoding/json"
	"time"
)

// 事件类型
const (
	EventRelationshipCreated  = "relationship.created"
	EventRelationshipReviewed = "relationship.reviewed"
	EventMessagePersisted     = "message.persisted"
)

// Event 领域事件
// Key 决定 Kafka 分区，同一用户对的事件落在同一分区以保持顺序
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// NewEvent 创建事件并记录发生时间
func NewEvent(eventType, key string, payload interface{}) Event {
	return Event{Type: eventType, Key: key, OccurredAt: time.Now(), Payload: payload}
}

// Encode 序列化为 JSON
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher 不投递任何事件，messageMode 为 channel 时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
