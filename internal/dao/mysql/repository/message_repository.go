package repository

import (
	"context"

	"devmatch_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 持久化消息
func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return wrapDBErrorf(err, "创建消息 sender=%s", message.SendId)
	}
	return nil
}

// FindByUserIds 查找两个用户之间的私聊消息
func (r *messageRepository) FindByUserIds(ctx context.Context, userOneId, userTwoId string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("(send_id = ? AND receive_id = ?) OR (send_id = ? AND receive_id = ?)",
			userOneId, userTwoId, userTwoId, userOneId).
		Order("send_at ASC, uuid ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询私聊消息 %s<->%s", userOneId, userTwoId)
	}
	return messages, nil
}

// FindByUser 查找用户参与的所有消息
func (r *messageRepository) FindByUser(ctx context.Context, user string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("send_id = ? OR receive_id = ?", user, user).
		Order("send_at ASC, uuid ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询用户消息 user=%s", user)
	}
	return messages, nil
}

// UpdateStatus 更新消息状态
func (r *messageRepository) UpdateStatus(ctx context.Context, uuid int64, status int8) error {
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("uuid = ?", uuid).
		Update("status", status).Error
	if err != nil {
		return wrapDBErrorf(err, "更新消息状态 uuid=%d", uuid)
	}
	return nil
}
