package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPool_RunsEveryTask(t *testing.T) {
	p := NewPool("test", 3, zap.NewNop())

	var count atomic.Int32
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Submit(func(context.Context) { count.Add(1) }))
	}

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(50), count.Load())
}

func TestPool_SingleWorkerKeepsOrder(t *testing.T) {
	p := NewPool("ordered", 1, zap.NewNop())

	var mu sync.Mutex
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, p.Submit(func(context.Context) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestPool_PanicDoesNotKillWorker(t *testing.T) {
	p := NewPool("panics", 1, zap.NewNop())

	var ran atomic.Bool
	require.NoError(t, p.Submit(func(context.Context) { panic("boom") }))
	require.NoError(t, p.Submit(func(context.Context) { ran.Store(true) }))

	require.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, ran.Load())
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := NewPool("closed", 1, zap.NewNop())
	require.NoError(t, p.Shutdown(context.Background()))

	assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrPoolClosed)
}

func TestPool_ShutdownAbandonsOnDeadline(t *testing.T) {
	p := NewPool("slow", 1, zap.NewNop())

	started := make(chan struct{})
	cancelled := make(chan struct{})
	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	}))
	var late atomic.Bool
	require.NoError(t, p.Submit(func(context.Context) { late.Store(true) }))

	<-started
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running task was not cancelled")
	}
	assert.Equal(t, 0, p.Pending())
	assert.False(t, late.Load())
}
