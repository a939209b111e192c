package mq

import (
	"context"
	"fmt"
	"time"

	"devmatch_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher 基于 kafka-go Writer 的事件发布者
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher 创建 Writer，连接在第一次写入时建立
func NewKafkaPublisher(conf *config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.EventTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           conf.Timeout * time.Second,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: false,
		},
	}
}

// Publish 写入一条事件
func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := event.Encode()
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

// Close 刷新并关闭 Writer
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// CreateTopic 创建事件主题，已存在时 Kafka 不会报错
func CreateTopic(conf *config.KafkaConfig) error {
	conn, err := kafka.Dial("tcp", conf.HostPort)
	if err != nil {
		return fmt.Errorf("dial kafka %s: %w", conf.HostPort, err)
	}
	defer conn.Close()

	partitions := conf.Partition
	if partitions <= 0 {
		partitions = 1
	}
	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             conf.EventTopic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
}

// NewPublisher 根据 messageMode 选择实现
func NewPublisher(conf *config.KafkaConfig) EventPublisher {
	if conf.MessageMode != "kafka" {
		return NoopPublisher{}
	}
	if err := CreateTopic(conf); err != nil {
		zap.L().Warn("create kafka topic failed", zap.String("topic", conf.EventTopic), zap.Error(err))
	}
	zap.L().Info("kafka event publisher enabled", zap.String("addr", conf.HostPort), zap.String("topic", conf.EventTopic))
	return NewKafkaPublisher(conf)
}

// PublishAsync 在后台发布事件，失败只记日志
func PublishAsync(publisher EventPublisher, event Event) {
	if publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publisher.Publish(ctx, event); err != nil {
			zap.L().Warn("publish event failed",
				zap.String("type", event.Type),
				zap.String("key", event.Key),
				zap.Error(err))
		}
	}()
}
