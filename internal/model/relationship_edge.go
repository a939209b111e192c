package model

import (
	"time"
)

// RelationshipEdge 用户之间的有向关系边
// 对应数据库 relationship_edge 表
// 同一对用户（无序）最多一条记录，由 pair_key 唯一索引保证
type RelationshipEdge struct {
	ID uint `gorm:"primarykey"`

	// Uuid 关系记录唯一标识
	// 格式：R + 日期 + 随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:关系id"`

	// FromId 发起方 UUID
	FromId string `gorm:"column:from_id;index;type:char(20);not null;comment:发起方ID"`

	// ToId 接收方 UUID，只有接收方可以审核
	ToId string `gorm:"column:to_id;index;type:char(20);not null;comment:接收方ID"`

	// PairKey 无序用户对，min(from,to):max(from,to)
	PairKey string `gorm:"column:pair_key;uniqueIndex;type:varchar(48);not null;comment:用户对"`

	// Status 关系状态
	// interested / ignored / accepted / rejected，参见 relationship_status_enum
	Status string `gorm:"column:status;index;type:varchar(16);not null;comment:状态"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (RelationshipEdge) TableName() string {
	return "relationship_edge"
}

// PairKey 计算两个用户的无序组合键
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// Peer 返回关系边上 user 的另一方
func (e *RelationshipEdge) Peer(user string) string {
	if e.FromId == user {
		return e.ToId
	}
	return e.FromId
}
