// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"

	"devmatch_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户资料只读访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户，不存在返回 CodeNotFound
	FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error)
	// FindFeedPage 按创建顺序分页查询正常状态的用户，排除 excluded 中的 UUID
	FindFeedPage(ctx context.Context, excluded []string, offset, limit int) ([]model.UserInfo, error)
}

// RelationshipRepository 关系边数据访问接口
// 关系边只增不删，状态迁移通过条件更新完成
type RelationshipRepository interface {
	// Create 创建关系边，同一用户对已存在记录时返回 CodeDuplicateRelationship
	Create(ctx context.Context, edge *model.RelationshipEdge) error
	// FindByUuid 根据关系 ID 查找
	FindByUuid(ctx context.Context, uuid string) (*model.RelationshipEdge, error)
	// FindByPair 查找两个用户之间的关系边（不区分方向）
	FindByPair(ctx context.Context, a, b string) (*model.RelationshipEdge, error)
	// FindPeersOf 返回与 user 存在任意关系边的所有用户
	FindPeersOf(ctx context.Context, user string) ([]string, error)
	// FindIncomingPending 查找发给 user 且状态为 interested 的关系边
	FindIncomingPending(ctx context.Context, user string) ([]model.RelationshipEdge, error)
	// FindAccepted 查找 user 参与的所有 accepted 关系边
	FindAccepted(ctx context.Context, user string) ([]model.RelationshipEdge, error)
	// UpdateStatusIfPending 仅当当前状态为 interested 时更新，返回是否更新成功
	UpdateStatusIfPending(ctx context.Context, uuid, status string) (bool, error)
}

// MessageRepository 消息数据访问接口
// 查询结果均按 (send_at, uuid) 升序
type MessageRepository interface {
	// Create 持久化一条消息
	Create(ctx context.Context, message *model.Message) error
	// FindByUserIds 查找两个用户之间的所有消息
	FindByUserIds(ctx context.Context, userOneId, userTwoId string) ([]model.Message, error)
	// FindByUser 查找用户作为发送方或接收方的所有消息
	FindByUser(ctx context.Context, user string) ([]model.Message, error)
	// UpdateStatus 更新消息投递状态
	UpdateStatus(ctx context.Context, uuid int64, status int8) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	User         UserRepository
	Relationship RelationshipRepository
	Message      MessageRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Relationship: NewRelationshipRepository(db),
		Message:      NewMessageRepository(db),
	}
}
