// Package relationship_status_enum 关系边状态
// interested / ignored 由发起方在申请时声明，accepted / rejected 只能由接收方审核得到
package relationship_status_enum

const (
	INTERESTED = "interested" // 待审核（感兴趣）
	IGNORED    = "ignored"    // 发起方忽略，终态，不会展示给接收方
	ACCEPTED   = "accepted"   // 接收方同意，终态
	REJECTED   = "rejected"   // 接收方拒绝，终态
)

// IsSendIntent 是否为发起申请时允许的状态
func IsSendIntent(status string) bool {
	return status == INTERESTED || status == IGNORED
}

// IsReviewDecision 是否为审核时允许的状态
func IsReviewDecision(status string) bool {
	return status == ACCEPTED || status == REJECTED
}
