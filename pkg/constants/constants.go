package constants

import "time"

const (
	CHANNEL_SIZE        = 100  // 每个连接的下行缓冲大小
	MESSAGE_MAX_RUNES   = 2000 // 单条消息最大字符数
	FEED_DEFAULT_LIMIT  = 10   // 推荐列表默认每页条数
	FEED_MAX_LIMIT      = 50   // 推荐列表每页上限
	REDIS_TIMEOUT       = 30   // 关系集合缓存过期时间（分钟）
	USER_INFO_CACHE_TTL = time.Hour
)

// Redis key 前缀
const (
	RelationPeersKeyPrefix = "relation_peers:"
	UserInfoKeyPrefix      = "user_info_"
	// RelationPeersLoaded 关系集合已从数据库完整加载的标记成员
	RelationPeersLoaded = "__loaded__"
)
