// Package mysql 负责建立 MySQL 连接、自动迁移表结构、初始化 Repository 层
package mysql

import (
	"fmt"

	"devmatch_server/internal/config"
	"devmatch_server/internal/dao/mysql/repository"
	"devmatch_server/internal/model"

	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DSN 构建 MySQL 连接字符串
// 格式：user:password@tcp(host:port)/database?params
func DSN(conf *config.MysqlConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.User,
		conf.Password,
		conf.Host,
		conf.Port,
		conf.DatabaseName,
	)
}

// Init 初始化数据库连接并返回 Repository 层实例
// TranslateError 让唯一索引冲突以 gorm.ErrDuplicatedKey 返回
func Init(conf *config.MysqlConfig) (*repository.Repositories, error) {
	db, err := gorm.Open(mysqldriver.Open(DSN(conf)), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	// 只建表和加字段，不会删除已有字段或数据
	err = db.AutoMigrate(
		&model.UserInfo{},
		&model.RelationshipEdge{},
		&model.Message{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return repository.NewRepositories(db), nil
}
