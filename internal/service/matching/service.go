// Package matching 用户之间的申请与审核
// 每对用户最多一条关系边：发起方声明 interested 或 ignored，
// 只有接收方能把 interested 改为 accepted 或 rejected，其余状态都是终态
package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"devmatch_server/internal/dao/mysql/repository"
	myredis "devmatch_server/internal/dao/redis"
	"devmatch_server/internal/dto/respond"
	"devmatch_server/internal/infrastructure/mq"
	"devmatch_server/internal/model"
	"devmatch_server/pkg/enum/relationship/relationship_status_enum"
	"devmatch_server/pkg/enum/user_info/user_status_enum"
	"devmatch_server/pkg/errorx"
	"devmatch_server/pkg/util/random"
)

// UserLookup 批量获取用户展示信息
type UserLookup interface {
	GetUserInfos(ctx context.Context, uuids []string) (map[string]respond.UserCard, error)
}

// matchingService 关系业务逻辑实现
type matchingService struct {
	repos     *repository.Repositories
	users     UserLookup
	peers     *myredis.PeerSetCache
	publisher mq.EventPublisher
	locks     *keyedMutex
}

// NewMatchingService 构造函数，peers 与 publisher 可以为 nil
func NewMatchingService(repos *repository.Repositories, users UserLookup, peers *myredis.PeerSetCache, publisher mq.EventPublisher) *matchingService {
	if publisher == nil {
		publisher = mq.NoopPublisher{}
	}
	return &matchingService{
		repos:     repos,
		users:     users,
		peers:     peers,
		publisher: publisher,
		locks:     newKeyedMutex(),
	}
}

// SendRequest 发起申请
// 同一对用户的检查和写入在进程内串行，数据库唯一索引兜底
func (m *matchingService) SendRequest(ctx context.Context, from, to, status string) (*model.RelationshipEdge, error) {
	if !relationship_status_enum.IsSendIntent(status) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "非法的申请状态: %s", status)
	}
	if to == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "目标用户不能为空")
	}
	if from == to {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能向自己发送申请")
	}

	target, err := m.repos.User.FindByUuid(ctx, to)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "用户不存在")
		}
		zap.L().Error("find target user error", zap.String("to", to), zap.Error(err))
		return nil, err
	}
	if target.Status == user_status_enum.DISABLE {
		return nil, errorx.New(errorx.CodeNotFound, "用户不存在")
	}

	pairKey := model.PairKey(from, to)
	unlock := m.locks.Lock(pairKey)
	defer unlock()

	if _, err := m.repos.Relationship.FindByPair(ctx, from, to); err == nil {
		return nil, errorx.New(errorx.CodeDuplicateRelationship, "你们之间已经存在申请记录")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error("find relationship error", zap.String("pair", pairKey), zap.Error(err))
		return nil, err
	}

	edge := &model.RelationshipEdge{
		Uuid:   fmt.Sprintf("R%s", random.GetNowAndLenRandomString(11)),
		FromId: from,
		ToId:   to,
		Status: status,
	}
	// 先删集合再写库，后面任何一步失败都只会触发回源
	m.peers.Invalidate(ctx, from, to)
	if err := m.repos.Relationship.Create(ctx, edge); err != nil {
		if errorx.HasCode(err, errorx.CodeDuplicateRelationship) {
			return nil, errorx.Wrap(err, errorx.CodeDuplicateRelationship, "你们之间已经存在申请记录")
		}
		zap.L().Error("create relationship error", zap.String("pair", pairKey), zap.Error(err))
		return nil, err
	}

	// 推荐列表依赖关系集合，必须在返回前更新
	m.peers.AddPeer(ctx, from, to)
	mq.PublishAsync(m.publisher, mq.NewEvent(mq.EventRelationshipCreated, pairKey, respond.NewEdgeRespond(edge)))
	return edge, nil
}

// ReviewRequest 接收方审核申请
func (m *matchingService) ReviewRequest(ctx context.Context, reviewer, edgeId, status string) (*model.RelationshipEdge, error) {
	if !relationship_status_enum.IsReviewDecision(status) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "非法的审核状态: %s", status)
	}

	edge, err := m.repos.Relationship.FindByUuid(ctx, edgeId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "申请记录不存在")
		}
		zap.L().Error("find relationship error", zap.String("edge", edgeId), zap.Error(err))
		return nil, err
	}
	if edge.ToId != reviewer {
		return nil, errorx.New(errorx.CodeUnauthorized, "只有被申请人可以审核该申请")
	}
	if edge.Status != relationship_status_enum.INTERESTED {
		return nil, errorx.Newf(errorx.CodeInvalidState, "申请当前状态为 %s，不能审核", edge.Status)
	}

	updated, err := m.repos.Relationship.UpdateStatusIfPending(ctx, edgeId, status)
	if err != nil {
		zap.L().Error("update relationship status error", zap.String("edge", edgeId), zap.Error(err))
		return nil, err
	}
	if !updated {
		return nil, errorx.New(errorx.CodeInvalidState, "申请已被处理")
	}

	reviewed, err := m.repos.Relationship.FindByUuid(ctx, edgeId)
	if err != nil {
		// 状态已经提交，读回失败时用本地副本返回
		zap.L().Warn("reload relationship error", zap.String("edge", edgeId), zap.Error(err))
		edge.Status = status
		reviewed = edge
	}
	mq.PublishAsync(m.publisher, mq.NewEvent(mq.EventRelationshipReviewed, reviewed.PairKey, respond.NewEdgeRespond(reviewed)))
	return reviewed, nil
}

// IncomingRequests 发给 user 的待审核申请，附带发起方信息
func (m *matchingService) IncomingRequests(ctx context.Context, user string) ([]respond.IncomingRequestRespond, error) {
	edges, err := m.repos.Relationship.FindIncomingPending(ctx, user)
	if err != nil {
		zap.L().Error("find incoming requests error", zap.String("user", user), zap.Error(err))
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for i := range edges {
		ids = append(ids, edges[i].FromId)
	}
	cards, err := m.users.GetUserInfos(ctx, ids)
	if err != nil {
		return nil, err
	}

	rsp := make([]respond.IncomingRequestRespond, 0, len(edges))
	for i := range edges {
		rsp = append(rsp, respond.IncomingRequestRespond{
			EdgeId:    edges[i].Uuid,
			Status:    edges[i].Status,
			CreatedAt: edges[i].CreatedAt,
			From:      cardOrID(cards, edges[i].FromId),
		})
	}
	return rsp, nil
}

// Connections 与 user 已建立连接的用户
func (m *matchingService) Connections(ctx context.Context, user string) ([]respond.ConnectionRespond, error) {
	edges, err := m.repos.Relationship.FindAccepted(ctx, user)
	if err != nil {
		zap.L().Error("find connections error", zap.String("user", user), zap.Error(err))
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for i := range edges {
		ids = append(ids, edges[i].Peer(user))
	}
	cards, err := m.users.GetUserInfos(ctx, ids)
	if err != nil {
		return nil, err
	}

	rsp := make([]respond.ConnectionRespond, 0, len(edges))
	for i := range edges {
		rsp = append(rsp, respond.ConnectionRespond{
			EdgeId:      edges[i].Uuid,
			ConnectedAt: edges[i].UpdatedAt,
			User:        cardOrID(cards, edges[i].Peer(user)),
		})
	}
	return rsp, nil
}

// AreConnected 两个用户之间是否存在 accepted 关系边
func (m *matchingService) AreConnected(ctx context.Context, a, b string) (bool, error) {
	edge, err := m.repos.Relationship.FindByPair(ctx, a, b)
	if err != nil {
		if errorx.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return edge.Status == relationship_status_enum.ACCEPTED, nil
}

// cardOrID 资料缺失时只返回 UUID
func cardOrID(cards map[string]respond.UserCard, id string) respond.UserCard {
	if card, ok := cards[id]; ok {
		return card
	}
	return respond.UserCard{UserId: id}
}
