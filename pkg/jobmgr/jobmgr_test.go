package jobmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAsync_RefusesDuplicateNames(t *testing.T) {
	m := NewManager(nil)
	release := make(chan struct{})

	require.NoError(t, m.StartAsync(context.Background(), "warm", func(ctx context.Context) error {
		<-release
		return nil
	}))
	err := m.StartAsync(context.Background(), "warm", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrRunning)
	assert.Equal(t, []string{"warm"}, m.List())

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Wait(ctx, "warm"))
	assert.Empty(t, m.List())
}

func TestStartAsync_ReportsLifecycle(t *testing.T) {
	var mu sync.Mutex
	var events []string
	m := NewManager(func(s string) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
	})

	require.NoError(t, m.StartAsync(context.Background(), "sync", func(ctx context.Context) error {
		return errors.New("offline")
	}))
	require.Eventually(t, func() bool { return len(m.List()) == 0 }, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"running:sync", "error:sync:offline"}, events)
}

func TestStop_CancelsContext(t *testing.T) {
	m := NewManager(nil)
	stopped := make(chan struct{})

	require.NoError(t, m.StartAsync(context.Background(), "cron", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	}))
	require.NoError(t, m.Stop("cron"))

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("job was not cancelled")
	}
	assert.Error(t, m.Stop("cron"))
}
