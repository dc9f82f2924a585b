package task_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costscope/costscope-api/internal/task"
)

// fakeTask is a controllable Task implementation for runner tests.
type fakeTask struct {
	id       uuid.UUID
	taskType string
	execute  func(ctx context.Context) error
	executed atomic.Bool
}

func newFakeTask(execute func(ctx context.Context) error) *fakeTask {
	return &fakeTask{
		id:       uuid.New(),
		taskType: "fake",
		execute:  execute,
	}
}

func (t *fakeTask) ID() uuid.UUID { return t.id }
func (t *fakeTask) Type() string  { return t.taskType }

func (t *fakeTask) Execute(ctx context.Context) error {
	t.executed.Store(true)
	if t.execute != nil {
		return t.execute(ctx)
	}
	return nil
}

func TestRunnerProcessesSubmittedTasks(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{WorkerCount: 2, QueueSize: 10}, newTestLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	done := make(chan struct{})
	ft := newFakeTask(func(ctx context.Context) error {
		close(done)
		return nil
	})

	require.NoError(t, runner.Submit(context.Background(), ft))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not executed")
	}
	assert.True(t, ft.executed.Load())
}

func TestRunnerQueueFull(t *testing.T) {
	t.Parallel()

	// One worker blocked on a slow task plus a single queue slot.
	runner := task.NewRunner(task.RunnerConfig{WorkerCount: 1, QueueSize: 1}, newTestLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	blocker := newFakeTask(func(ctx context.Context) error {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	require.NoError(t, runner.Submit(context.Background(), blocker))
	<-started

	// Fill the queue slot, then the next submit must be rejected.
	require.NoError(t, runner.Submit(context.Background(), newFakeTask(nil)))
	err := runner.Submit(context.Background(), newFakeTask(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")

	close(release)
}

func TestRunnerErrorHandler(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{WorkerCount: 1, QueueSize: 5}, newTestLogger())

	execErr := errors.New("boom")
	handled := make(chan error, 1)
	runner.SetErrorHandler(func(_ task.Task, err error) {
		handled <- err
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	require.NoError(t, runner.Submit(context.Background(), newFakeTask(func(ctx context.Context) error {
		return execErr
	})))

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, execErr)
	case <-time.After(2 * time.Second):
		t.Fatal("error handler was not invoked")
	}
}

func TestRunnerStopWaitsForWorkers(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{WorkerCount: 3, QueueSize: 10}, newTestLogger())
	require.NoError(t, runner.Start())

	var completed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		require.NoError(t, runner.Submit(context.Background(), newFakeTask(func(ctx context.Context) error {
			defer wg.Done()
			completed.Add(1)
			return nil
		})))
	}

	wg.Wait()
	runner.Stop()

	assert.Equal(t, int32(3), completed.Load())
}

func TestRunnerZeroConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{}, newTestLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	done := make(chan struct{})
	require.NoError(t, runner.Submit(context.Background(), newFakeTask(func(ctx context.Context) error {
		close(done)
		return nil
	})))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not executed with default config")
	}
}
