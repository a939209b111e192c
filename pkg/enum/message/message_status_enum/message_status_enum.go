package message_status_enum

const (
	Unsent = iota // 已落库，尚未推送到任何在线连接
	Sent          // 至少推送到接收方一个在线连接
)
