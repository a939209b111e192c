package respond

import (
	"time"

	"devmatch_server/internal/model"
)

// EdgeRespond 关系记录
type EdgeRespond struct {
	EdgeId    string    `json:"edgeId"`
	FromId    string    `json:"fromId"`
	ToId      string    `json:"toId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEdgeRespond 从关系边构建响应
func NewEdgeRespond(e *model.RelationshipEdge) EdgeRespond {
	return EdgeRespond{
		EdgeId:    e.Uuid,
		FromId:    e.FromId,
		ToId:      e.ToId,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// IncomingRequestRespond 待审核的申请，附带发起方信息
type IncomingRequestRespond struct {
	EdgeId    string    `json:"edgeId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	From      UserCard  `json:"from"`
}

// ConnectionRespond 已建立连接的用户
type ConnectionRespond struct {
	EdgeId      string    `json:"edgeId"`
	ConnectedAt time.Time `json:"connectedAt"`
	User        UserCard  `json:"user"`
}
