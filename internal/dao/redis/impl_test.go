package redis

import (
	"sync"
	"testing"
	"time"
)

func TestSubmitTaskRunsOnWorker(t *testing.T) {
	rc := NewRedisCache(nil, 2, 8)

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		rc.SubmitTask(wg.Done)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("tasks were not executed")
	}
}

func TestSubmitTaskFallsBackToSync(t *testing.T) {
	// 没有 worker 且通道无缓冲，任务只能同步执行
	rc := NewRedisCache(nil, 0, 0)
	ran := false
	rc.SubmitTask(func() { ran = true })
	if !ran {
		t.Fatalf("task should run synchronously when the channel is full")
	}
}
