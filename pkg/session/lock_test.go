package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/satchel-dev/satchel/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := New(memory.New(), WithTTL(time.Hour))
	ctx := context.Background()
	count := 1000

	// Create and destroy many sessions; the lock map must not accumulate
	// entries once no operation holds them.
	for i := 0; i < count; i++ {
		id, err := mgr.Create(ctx, nil)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := mgr.Destroy(ctx, id); err != nil {
			t.Fatalf("destroy failed: %v", err)
		}
	}

	mgr.mu.Lock()
	remaining := len(mgr.locks)
	mgr.mu.Unlock()

	if remaining != 0 {
		t.Errorf("lock map leak: %d entries remaining after all operations completed", remaining)
	}
}

func TestManager_LockLifecycleConcurrent(t *testing.T) {
	mgr := New(memory.New(), WithTTL(time.Hour))
	ctx := context.Background()

	id, err := mgr.Create(ctx, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = mgr.Read(ctx, id)
		}()
	}
	wg.Wait()

	mgr.mu.Lock()
	remaining := len(mgr.locks)
	mgr.mu.Unlock()

	if remaining != 0 {
		t.Errorf("lock map leak: %d entries remaining after concurrent reads", remaining)
	}
}
