package request

// SendRelationshipRequest 发起申请
// 使用位置:
//   - internal/handler/matching_handler.go: SendRequest
type SendRelationshipRequest struct {
	Status   string `uri:"status" binding:"required,oneof=interested ignored"`
	ToUserId string `uri:"toUserId" binding:"required"`
}

// ReviewRelationshipRequest 审核申请
// 使用位置:
//   - internal/handler/matching_handler.go: ReviewRequest
type ReviewRelationshipRequest struct {
	Status    string `uri:"status" binding:"required,oneof=accepted rejected"`
	RequestId string `uri:"requestId" binding:"required"`
}
