package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/config"
)

func TestGuardedSkipsOverlappingTicks(t *testing.T) {
	d := &Daemon{}

	release := make(chan struct{})
	firstRunning := make(chan struct{})
	var ran int
	var mu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.guarded("slow", func() {
			close(firstRunning)
			<-release
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}()

	<-firstRunning
	// second tick arrives while the first is still inside the job
	d.guarded("slow", func() {
		mu.Lock()
		ran++
		mu.Unlock()
	})
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, ran)
}

func TestGuardedRunsAgainAfterCompletion(t *testing.T) {
	d := &Daemon{}
	ran := 0
	d.guarded("job", func() { ran++ })
	d.guarded("job", func() { ran++ })
	assert.Equal(t, 2, ran)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.Daemon.IngestSchedule = "not a cron expression"
	d := NewDaemon(nil, nil, nil, cfg)

	err := d.Start(context.Background())
	assert.Error(t, err)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	d := NewDaemon(nil, nil, nil, config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop after cancellation")
	}
}
