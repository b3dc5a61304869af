package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		err := pool.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		})
		if err != nil {
			t.Fatalf("SubmitWait returned unexpected error: %v", err)
		}
	}

	wg.Wait()

	if got := count.Load(); got != n {
		t.Errorf("expected %d tasks to run, got %d", n, got)
	}
}

func TestPool_ErrPoolFull(t *testing.T) {
	pool := workerpool.New(1, workerpool.WithQueue(1))
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	_ = pool.SubmitWait(func() {
		close(started)
		<-blocker
	})
	<-started

	if err := pool.Submit(func() {}); err != nil {
		t.Fatalf("first queued task: %v", err)
	}

	err := pool.Submit(func() {})
	if !errors.Is(err, workerpool.ErrPoolFull) {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}
	if got := pool.Pending(); got != 1 {
		t.Errorf("expected 1 pending task, got %d", got)
	}

	close(blocker)
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()

	if err := pool.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Shutdown, got %v", err)
	}
	if err := pool.SubmitWait(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed from SubmitWait, got %v", err)
	}
}

func TestPool_PanicHandler(t *testing.T) {
	recovered := make(chan any, 1)
	pool := workerpool.New(1, workerpool.WithPanicHandler(func(r any) { recovered <- r }))
	defer pool.Shutdown()

	_ = pool.SubmitWait(func() { panic("audit sink exploded") })

	select {
	case r := <-recovered:
		if r != "audit sink exploded" {
			t.Errorf("unexpected recovered value %v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler was not called")
	}

	normal := make(chan struct{})
	_ = pool.SubmitWait(func() { close(normal) })

	select {
	case <-normal:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not recover from panic")
	}
}

func TestPool_ShutdownRunsQueuedTasks(t *testing.T) {
	pool := workerpool.New(1, workerpool.WithQueue(16))

	var count atomic.Int64
	for i := 0; i < 10; i++ {
		_ = pool.SubmitWait(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		})
	}

	pool.Shutdown()

	if got := count.Load(); got != 10 {
		t.Errorf("expected all 10 queued tasks to run before Shutdown returned, got %d", got)
	}
}
