package repository

import (
	"context"
	"time"

	"devmatch_server/internal/model"
	"devmatch_server/pkg/enum/relationship/relationship_status_enum"

	"gorm.io/gorm"
)

type relationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository 创建关系边 Repository
func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

// Create 创建关系边
// pair_key 唯一索引冲突会被 gorm 翻译为 ErrDuplicatedKey
func (r *relationshipRepository) Create(ctx context.Context, edge *model.RelationshipEdge) error {
	edge.PairKey = model.PairKey(edge.FromId, edge.ToId)
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		return wrapDBErrorf(err, "创建关系 %s", edge.PairKey)
	}
	return nil
}

// FindByUuid 按关系 ID 查找
func (r *relationshipRepository) FindByUuid(ctx context.Context, uuid string) (*model.RelationshipEdge, error) {
	var edge model.RelationshipEdge
	if err := r.db.WithContext(ctx).First(&edge, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询关系 uuid=%s", uuid)
	}
	return &edge, nil
}

// FindByPair 按无序用户对查找
func (r *relationshipRepository) FindByPair(ctx context.Context, a, b string) (*model.RelationshipEdge, error) {
	var edge model.RelationshipEdge
	key := model.PairKey(a, b)
	if err := r.db.WithContext(ctx).First(&edge, "pair_key = ?", key).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询关系 pair=%s", key)
	}
	return &edge, nil
}

// FindPeersOf 返回与 user 存在关系边的所有用户
func (r *relationshipRepository) FindPeersOf(ctx context.Context, user string) ([]string, error) {
	var edges []model.RelationshipEdge
	err := r.db.WithContext(ctx).
		Select("from_id", "to_id").
		Where("from_id = ? OR to_id = ?", user, user).
		Find(&edges).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询关系用户 user=%s", user)
	}
	peers := make([]string, 0, len(edges))
	for i := range edges {
		peers = append(peers, edges[i].Peer(user))
	}
	return peers, nil
}

// FindIncomingPending 查找待 user 审核的申请
func (r *relationshipRepository) FindIncomingPending(ctx context.Context, user string) ([]model.RelationshipEdge, error) {
	var edges []model.RelationshipEdge
	err := r.db.WithContext(ctx).
		Where("to_id = ? AND status = ?", user, relationship_status_enum.INTERESTED).
		Order("id ASC").
		Find(&edges).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询待审核申请 user=%s", user)
	}
	return edges, nil
}

// FindAccepted 查找 user 的所有已建立连接
func (r *relationshipRepository) FindAccepted(ctx context.Context, user string) ([]model.RelationshipEdge, error) {
	var edges []model.RelationshipEdge
	err := r.db.WithContext(ctx).
		Where("(from_id = ? OR to_id = ?) AND status = ?", user, user, relationship_status_enum.ACCEPTED).
		Order("id ASC").
		Find(&edges).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询已连接用户 user=%s", user)
	}
	return edges, nil
}

// UpdateStatusIfPending 条件更新，并发审核时只有一个能成功
func (r *relationshipRepository) UpdateStatusIfPending(ctx context.Context, uuid, status string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.RelationshipEdge{}).
		Where("uuid = ? AND status = ?", uuid, relationship_status_enum.INTERESTED).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return false, wrapDBErrorf(result.Error, "更新关系状态 uuid=%s", uuid)
	}
	return result.RowsAffected == 1, nil
}
