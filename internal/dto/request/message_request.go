package request

// GetMessageListRequest 获取与某个用户的私聊记录
// 使用位置:
//   - internal/handler/conversation_handler.go: GetMessageList
type GetMessageListRequest struct {
	OtherId string `uri:"otherId" binding:"required"`
}

// AnnounceRequest WebSocket 上行 announce 事件
// 使用位置:
//   - internal/gateway/websocket/client.go
type AnnounceRequest struct {
	UserId string `json:"userId"`
}

// ChatMessageRequest WebSocket 上行 message 事件
// 使用位置:
//   - internal/gateway/websocket/client.go
type ChatMessageRequest struct {
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}
