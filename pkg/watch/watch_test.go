package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/testsupport/fixture"
)

func startWatcher(t *testing.T, dir string, opts ...Option) (<-chan Event, context.CancelFunc) {
	t.Helper()
	w := New(dir, append([]Option{
		WithInterval(10 * time.Millisecond),
		WithStableChecks(1),
		WithExisting(true),
	}, opts...)...)
	events := w.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NilError(t, <-done)
	})
	return events, cancel
}

func next(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestWatcherParsesNewFiles(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	events, _ := startWatcher(t, dir)

	path := filepath.Join(dir, "session.ibt")
	buf := fixture.NewIBT(60).
		SessionInfo("WeekendInfo:\n TrackDisplayName: Circuit de Spa-Francorchamps\n").
		Channel("Speed", fixture.TypeFloat32).
		Records(60, func(int) map[string]float64 { return map[string]float64{"Speed": 40} }).
		Bytes()
	assert.NilError(t, os.WriteFile(path, buf, 0o600))

	ev := next(t, events)
	assert.Equal(t, ev.Path, path)
	assert.NilError(t, ev.Err)
	assert.Equal(t, ev.Result.Metadata.Track.GetOrZero(), "Circuit de Spa-Francorchamps")
}

func TestWatcherReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	failure := errors.New("broken")
	events, _ := startWatcher(t, dir, WithParseFunc(
		func(context.Context, string) (*model.ParseResult, error) { return nil, failure },
	))

	assert.NilError(t, os.WriteFile(filepath.Join(dir, "lap.blap"), []byte("BLAP"), 0o600))
	ev := next(t, events)
	assert.ErrorIs(t, ev.Err, failure)
}

func TestWatcherClosesSubscriptions(t *testing.T) {
	events, cancel := startWatcher(t, t.TempDir())
	cancel()
	select {
	case _, ok := <-events:
		assert.Assert(t, !ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestTrackIgnoresUnsupported(t *testing.T) {
	w := New(t.TempDir())
	w.track("a.txt")
	w.track("b.ibt")
	w.track("b.ibt")
	assert.Equal(t, len(w.pending), 1)
	close(w.events)
}
