// internal/app/system/tasks/runner_test.go
package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunner_RunsImmediatelyAndOnInterval(t *testing.T) {
	var runs atomic.Int64
	r := NewRunner(zap.NewNop(), Job{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	r.Start()
	time.Sleep(55 * time.Millisecond)
	r.Stop()

	got := runs.Load()
	if got < 2 {
		t.Errorf("runs: got %d, want at least 2 (immediate + ticks)", got)
	}
}

func TestRunner_StopWaitsForInFlightRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	r := NewRunner(zap.NewNop(), Job{
		Name:     "slow",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(started)
			time.Sleep(30 * time.Millisecond)
			finished.Store(true)
			return nil
		},
	})

	r.Start()
	<-started
	r.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the in-flight run finished")
	}
}

func TestRunner_JobErrorDoesNotStopOtherJobs(t *testing.T) {
	var okRuns atomic.Int64
	r := NewRunner(zap.NewNop(),
		Job{
			Name:     "failing",
			Interval: 10 * time.Millisecond,
			Run: func(ctx context.Context) error {
				return errors.New("boom")
			},
		},
		Job{
			Name:     "healthy",
			Interval: 10 * time.Millisecond,
			Run: func(ctx context.Context) error {
				okRuns.Add(1)
				return nil
			},
		},
	)

	r.Start()
	time.Sleep(45 * time.Millisecond)
	r.Stop()

	if okRuns.Load() < 2 {
		t.Errorf("healthy job runs: got %d, want at least 2", okRuns.Load())
	}
}
