package repository

import (
	"context"

	"devmatch_server/internal/model"
	"devmatch_server/pkg/enum/user_info/user_status_enum"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 按 UUID 查找用户
func (r *userRepository) FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByUuids 按 UUID 列表查找用户
func (r *userRepository) FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error) {
	if len(uuids) == 0 {
		return []model.UserInfo{}, nil
	}
	var users []model.UserInfo
	if err := r.db.WithContext(ctx).Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// FindFeedPage 推荐列表分页
// 空的 NOT IN 列表在 MySQL 中会过滤掉所有行，所以 excluded 为空时不加该条件
func (r *userRepository) FindFeedPage(ctx context.Context, excluded []string, offset, limit int) ([]model.UserInfo, error) {
	query := r.db.WithContext(ctx).Where("status = ?", user_status_enum.NORMAL)
	if len(excluded) > 0 {
		query = query.Where("uuid NOT IN ?", excluded)
	}
	var users []model.UserInfo
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询推荐用户 offset=%d limit=%d", offset, limit)
	}
	return users, nil
}
