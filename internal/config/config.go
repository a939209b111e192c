// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 3001
	Mode    string `toml:"mode"`    // 运行模式：dev / release
	TLS     bool   `toml:"tls"`     // 是否启用 HTTP -> HTTPS 重定向
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enable   bool   `toml:"enable"`   // 关闭时推荐列表直接查库
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig Kafka 领域事件配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // "channel" 不投递事件，"kafka" 投递到 Kafka
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	EventTopic  string        `toml:"eventTopic"`  // 领域事件主题
	Partition   int           `toml:"partition"`   // 创建主题时的分区数
	Timeout     time.Duration `toml:"timeout"`     // 写超时（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret            string `toml:"secret"`            // JWT 签名密钥，与账号服务一致
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // Access Token 有效期（分钟）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 雪花算法节点 ID，范围 0-1023
}

// FeedConfig 推荐列表配置
type FeedConfig struct {
	DefaultPageSize int `toml:"defaultPageSize"` // 未指定 limit 时的每页条数
	MaxPageSize     int `toml:"maxPageSize"`     // 每页条数上限
	PeerSetTTL      int `toml:"peerSetTTL"`      // 关系缓存过期时间（分钟）
}

// WsConfig WebSocket 连接配置
type WsConfig struct {
	PongWait       int   `toml:"pongWait"`       // 等待 pong 的秒数，超时视为断线
	WriteWait      int   `toml:"writeWait"`      // 单次写超时秒数
	MaxMessageSize int64 `toml:"maxMessageSize"` // 单帧最大字节数
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`      // 主配置
	MysqlConfig     `toml:"mysqlConfig"`     // MySQL 配置
	RedisConfig     `toml:"redisConfig"`     // Redis 配置
	LogConfig       `toml:"logConfig"`       // 日志配置
	KafkaConfig     `toml:"kafkaConfig"`     // Kafka 配置
	JWTConfig       `toml:"jwtConfig"`       // JWT 配置
	SnowflakeConfig `toml:"snowflakeConfig"` // 雪花算法配置
	FeedConfig      `toml:"feedConfig"`      // 推荐列表配置
	WsConfig        `toml:"wsConfig"`        // WebSocket 配置
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",       // 从子目录运行时的路径
	}

	if config == nil {
		config = defaultConfig()
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// LoadFile 从指定路径加载配置，覆盖全局实例
func LoadFile(path string) (*Config, error) {
	c := defaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	config = c
	return config, nil
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件
func GetConfig() *Config {
	if config == nil {
		config = defaultConfig()
		_ = LoadConfig() // 忽略加载错误，使用默认值
	}
	return config
}

// defaultConfig 未配置项的默认值
func defaultConfig() *Config {
	return &Config{
		MainConfig:      MainConfig{AppName: "devmatch", Host: "0.0.0.0", Port: 3001, Mode: "dev"},
		LogConfig:       LogConfig{LogPath: "./logs", Level: "info"},
		KafkaConfig:     KafkaConfig{MessageMode: "channel", EventTopic: "devmatch_events", Partition: 1, Timeout: 1},
		JWTConfig:       JWTConfig{AccessTokenExpiry: 60},
		SnowflakeConfig: SnowflakeConfig{MachineID: 1},
		FeedConfig:      FeedConfig{DefaultPageSize: 10, MaxPageSize: 50, PeerSetTTL: 30},
		WsConfig:        WsConfig{PongWait: 60, WriteWait: 10, MaxMessageSize: 8192},
	}
}
