package user_status_enum

const (
	NORMAL  = iota // 正常
	DISABLE        // 禁用
)
