// Package watch parses telemetry files as soon as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/model"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/parser"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/utils/broadcast"
)

// Event is emitted once per completely written file
type Event struct {
	Path   string
	Result *model.ParseResult
	Err    error
}

type ParseFunc func(ctx context.Context, path string) (*model.ParseResult, error)

type pendingFile struct {
	size   int64
	stable int
}

type (
	Option  func(*Watcher)
	Watcher struct {
		dir          string
		parse        ParseFunc
		interval     time.Duration
		stableChecks int
		existing     bool
		logger       *log.Logger
		pending      map[string]*pendingFile
		events       chan Event
		server       broadcast.BroadcastServer[Event]
	}
)

// WithInterval sets the poll interval for the size check of new files
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

// WithStableChecks sets the number of polls a file size must stay unchanged
func WithStableChecks(n int) Option {
	return func(w *Watcher) { w.stableChecks = max(n, 1) }
}

// WithExisting also processes files already present when the watcher starts
func WithExisting(b bool) Option {
	return func(w *Watcher) { w.existing = b }
}

func WithParseFunc(f ParseFunc) Option {
	return func(w *Watcher) { w.parse = f }
}

func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

func New(dir string, opts ...Option) *Watcher {
	w := &Watcher{
		dir:          dir,
		parse:        parser.ParseFile,
		interval:     time.Second,
		stableChecks: 2,
		logger:       log.Default().Named("watch"),
		pending:      map[string]*pendingFile{},
		events:       make(chan Event),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.server = broadcast.NewBroadcastServer("watch", w.events,
		broadcast.WithSendTimeout[Event](0),
		broadcast.WithLogger[Event](w.logger))
	return w
}

// Subscribe returns a channel receiving all events.
// Subscribe before calling Run, the channel is closed when Run returns.
func (w *Watcher) Subscribe() <-chan Event {
	return w.server.Subscribe()
}

// Run watches the directory until ctx is done
//
//nolint:cyclop // event loop
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create fsnotify watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", w.dir, err)
	}
	if w.existing {
		if err := w.scan(); err != nil {
			return err
		}
	}
	w.logger.Info("watching directory", log.String("dir", w.dir))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("context done, stopping watcher")
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", log.ErrorField(err))
		case <-ticker.C:
			w.checkPending(ctx)
		}
	}
}

func (w *Watcher) scan() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			w.track(filepath.Join(w.dir, e.Name()))
		}
	}
	return nil
}

func (w *Watcher) handle(event fsnotify.Event) {
	w.logger.Debug("change detected",
		log.String("file", event.Name), log.String("op", event.Op.String()))
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.track(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	}
}

func (w *Watcher) track(path string) {
	if !parser.IsSupported(path) {
		return
	}
	if p, ok := w.pending[path]; ok {
		p.stable = 0
		return
	}
	w.pending[path] = &pendingFile{size: -1}
}

// checkPending processes the files whose size did not change for the
// configured number of polls
func (w *Watcher) checkPending(ctx context.Context) {
	ready := []string{}
	for path, p := range w.pending {
		st, err := os.Stat(path)
		if err != nil {
			delete(w.pending, path)
			continue
		}
		if st.Size() > 0 && st.Size() == p.size {
			p.stable++
		} else {
			p.size = st.Size()
			p.stable = 0
		}
		if p.stable >= w.stableChecks {
			ready = append(ready, path)
		}
	}
	slices.Sort(ready)
	for _, path := range ready {
		delete(w.pending, path)
		w.process(ctx, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	res, err := w.parse(ctx, path)
	if err != nil {
		w.logger.Warn("could not parse file", log.String("file", path), log.ErrorField(err))
	}
	select {
	case w.events <- Event{Path: path, Result: res, Err: err}:
	case <-ctx.Done():
	}
}

// Consume calls handle for each event until the channel is closed or ctx is done
func Consume(ctx context.Context, events <-chan Event, handle func(context.Context, Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			handle(ctx, ev)
		}
	}
}
