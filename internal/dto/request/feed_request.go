package request

// FeedRequest 推荐列表分页参数，缺省或越界的值由 Service 层修正
// 使用位置:
//   - internal/handler/feed_handler.go: GetFeed
type FeedRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
