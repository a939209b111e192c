// Package model 定义数据库实体模型
package model

import (
	"gorm.io/gorm"
)

// UserInfo 用户资料投影
// 对应数据库 user_info 表，账号服务负责写入，本服务只读
type UserInfo struct {
	gorm.Model

	// Uuid 用户唯一标识
	// 格式：U + 日期 + 随机字符串，如 "U241230AbCdE12345"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`

	Nickname string `gorm:"column:nickname;type:varchar(20);not null;comment:昵称"`
	Avatar   string `gorm:"column:avatar;type:char(255);default:https://cube.elemecdn.com/0/88/03b0d39583f48206768a7534e55bcpng.png;not null;comment:头像"`
	Gender   string `gorm:"column:gender;type:varchar(10);comment:性别"`
	Age      int    `gorm:"column:age;comment:年龄"`
	About    string `gorm:"column:about;type:varchar(255);comment:个人简介"`
	// Skills 技能标签，逗号分隔
	Skills string `gorm:"column:skills;type:varchar(255);comment:技能"`

	// Status 账号状态
	// 0=正常, 1=禁用；禁用用户不出现在推荐列表中，也不能被申请
	Status int8 `gorm:"column:status;index;not null;default:0;comment:状态，0.正常，1.禁用"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}
