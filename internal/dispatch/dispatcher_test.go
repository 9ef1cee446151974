package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campus-link/internal/domain/match"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDispatcher_RunsSubmittedJobs(t *testing.T) {
	d := NewDispatcher(2, 8, nil)
	d.Start(context.Background())

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		ok := d.Submit(func(context.Context) error {
			defer wg.Done()
			count.Add(1)
			return nil
		})
		if !ok {
			t.Fatalf("submit %d rejected", i)
		}
	}

	wg.Wait()
	d.Stop()

	if got := count.Load(); got != 5 {
		t.Fatalf("expected 5 jobs run, got %d", got)
	}
}

func TestDispatcher_SurvivesPanicsAndErrors(t *testing.T) {
	d := NewDispatcher(1, 8, nil)
	d.Start(context.Background())

	done := make(chan struct{})
	d.Submit(func(context.Context) error { panic("boom") })
	d.Submit(func(context.Context) error { return errors.New("job error") })
	d.Submit(func(context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a panicking job")
	}
	d.Stop()
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	d := NewDispatcher(1, 1, nil)
	d.Start(context.Background())
	d.Stop()

	if d.Submit(func(context.Context) error { return nil }) {
		t.Fatal("expected submit to be rejected after stop")
	}
}

func TestDispatcher_StopIsIdempotent(t *testing.T) {
	d := NewDispatcher(1, 1, nil)
	d.Start(context.Background())
	d.Stop()
	d.Stop()
}

type recordingNotifier struct {
	mu      sync.Mutex
	matches []match.TeammateMatch
	done    chan struct{}
}

func (r *recordingNotifier) NotifyMatch(_ context.Context, m match.TeammateMatch) {
	r.mu.Lock()
	r.matches = append(r.matches, m)
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
}

func TestAsyncEmitter_DeliversViaDispatcher(t *testing.T) {
	d := NewDispatcher(1, 4, nil)
	d.Start(context.Background())

	notifier := &recordingNotifier{done: make(chan struct{})}
	emitter := NewAsyncEmitter(d, notifier)

	emitter.NotifyMatch(context.Background(), match.TeammateMatch{Reasoning: "shared skills"})

	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification never delivered")
	}
	d.Stop()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.matches) != 1 || notifier.matches[0].Reasoning != "shared skills" {
		t.Fatalf("unexpected deliveries: %+v", notifier.matches)
	}
}

func TestAsyncEmitter_FallsBackInlineWhenQueueRejects(t *testing.T) {
	d := NewDispatcher(1, 1, nil)
	d.Start(context.Background())
	d.Stop()

	notifier := &recordingNotifier{}
	emitter := NewAsyncEmitter(d, notifier)
	emitter.NotifyMatch(context.Background(), match.TeammateMatch{})

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.matches) != 1 {
		t.Fatalf("expected inline fallback delivery, got %d", len(notifier.matches))
	}
}
