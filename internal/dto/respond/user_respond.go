package respond

import "devmatch_server/internal/model"

// UserCard 用户展示信息
// 使用位置:
//   - internal/service/user: GetUserInfo / GetUserInfos
//   - 推荐列表、申请列表、连接列表、会话列表
type UserCard struct {
	UserId   string `json:"userId"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Gender   string `json:"gender,omitempty"`
	Age      int    `json:"age,omitempty"`
	About    string `json:"about,omitempty"`
	Skills   string `json:"skills,omitempty"`
}

// NewUserCard 从用户资料构建展示信息
func NewUserCard(u *model.UserInfo) UserCard {
	return UserCard{
		UserId:   u.Uuid,
		Nickname: u.Nickname,
		Avatar:   u.Avatar,
		Gender:   u.Gender,
		Age:      u.Age,
		About:    u.About,
		Skills:   u.Skills,
	}
}

// FeedRespond 推荐列表
type FeedRespond struct {
	Users    []UserCard `json:"users"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// OnlineUsersRespond 在线用户
type OnlineUsersRespond struct {
	UserIds []string `json:"userIds"`
}
