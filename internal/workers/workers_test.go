package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingWorker struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (w *countingWorker) Run(ctx context.Context) {
	w.started.Store(true)
	<-ctx.Done()
	w.stopped.Store(true)
}

func TestWorkersRunAllAndWait(t *testing.T) {
	ws := []*countingWorker{{}, {}, {}}
	aggregate := NewWorkers()
	for _, w := range ws {
		aggregate.Add(w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		aggregate.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for _, w := range ws {
		for !w.started.Load() {
			select {
			case <-deadline:
				t.Fatal("worker never started")
			default:
				time.Sleep(time.Millisecond)
			}
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	for i, w := range ws {
		if !w.stopped.Load() {
			t.Errorf("worker %d did not observe cancellation", i)
		}
	}
}

func TestWorkersRunWithNoWorkersReturns(t *testing.T) {
	done := make(chan struct{})
	go func() {
		NewWorkers().Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with no workers did not return")
	}
}
