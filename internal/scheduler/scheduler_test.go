package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRefresher struct {
	mu       sync.Mutex
	ids      []string
	listErr  error
	stale    map[string]bool
	failing  map[string]bool
	visited  []string
	onVisit  func(id string)
	listed   chan struct{}
	listOnce sync.Once
}

func (f *fakeRefresher) ResumeIDs(context.Context) ([]string, error) {
	if f.listed != nil {
		f.listOnce.Do(func() { close(f.listed) })
	}
	return f.ids, f.listErr
}

func (f *fakeRefresher) RefreshEmbedding(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	f.visited = append(f.visited, id)
	f.mu.Unlock()

	if f.onVisit != nil {
		f.onVisit(id)
	}
	if f.failing[id] {
		return false, errors.New("model unavailable")
	}
	return f.stale[id], nil
}

func TestSweep(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	refresher := &fakeRefresher{
		ids:     []string{"a", "b", "c", "d"},
		stale:   map[string]bool{"a": true, "c": true},
		failing: map[string]bool{"b": true},
	}

	stats := New(refresher, 6, zap.New(core)).Sweep(context.Background())

	if stats != (SweepStats{Checked: 4, Refreshed: 2, Failed: 1}) {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(refresher.visited) != 4 || refresher.visited[0] != "a" || refresher.visited[3] != "d" {
		t.Fatalf("expected sequential visit in order, got %v", refresher.visited)
	}

	warnings := observed.FilterMessage("re-embedding failed").All()
	if len(warnings) != 1 || warnings[0].ContextMap()["resume_id"] != "b" {
		t.Fatalf("expected one warning for b, got %v", warnings)
	}
}

func TestSweepListFailure(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{listErr: errors.New("db down")}
	stats := New(refresher, 0, nil).Sweep(context.Background())

	if stats != (SweepStats{}) || len(refresher.visited) != 0 {
		t.Fatalf("expected empty sweep, got %+v", stats)
	}
}

func TestSweepStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	refresher := &fakeRefresher{ids: []string{"a", "b", "c"}}
	refresher.onVisit = func(id string) {
		if id == "a" {
			cancel()
		}
	}

	stats := New(refresher, 1, zap.NewNop()).Sweep(ctx)
	if stats.Checked != 1 {
		t.Fatalf("expected sweep to stop after cancellation, got %+v", stats)
	}
}

func TestStartRunsImmediately(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{listed: make(chan struct{})}
	s := New(refresher, 0, zap.NewNop())

	if s.spec != "@every 24h" {
		t.Fatalf("expected default spec, got %q", s.spec)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	select {
	case <-refresher.listed:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected an immediate sweep")
	}
}

func TestStopWaitsForImmediateSweep(t *testing.T) {
	t.Parallel()

	entered, release := make(chan struct{}), make(chan struct{})
	refresher := &fakeRefresher{ids: []string{"a"}}
	refresher.onVisit = func(string) {
		close(entered)
		<-release
	}

	s := New(refresher, 1, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected an immediate sweep")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatalf("stop returned while the sweep was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("stop did not return after the sweep finished")
	}
}
