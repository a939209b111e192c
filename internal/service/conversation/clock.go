package conversation

import (
	"sync"
	"time"

	"devmatch_server/pkg/util/snowflake"
)

// clock 消息时间戳与 ID 的唯一来源
// 时间精确到微秒（与 datetime(6) 一致），并保证严格递增
type clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newClock() *clock {
	return &clock{now: time.Now}
}

// next 返回下一条消息的发送时间和雪花 ID
// 二者在同一把锁下生成，排序键 (send_at, uuid) 与生成顺序一致
func (c *clock) next() (time.Time, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t, snowflake.GenerateID()
}
