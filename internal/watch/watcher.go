// Package watch rebuilds the bundle whenever an input changes, and
// optionally on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/elmbuild/internal/logfields"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// Trigger reasons.
const (
	TriggerStartup  = "startup"
	TriggerFSNotify = "fsnotify"
	TriggerSchedule = "schedule"
)

// Builder runs one build. *pipeline.Runner satisfies it.
type Builder interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// Options tunes the watcher.
type Options struct {
	Debounce time.Duration
	Interval time.Duration // 0 disables periodic rebuilds
	// OnBuild is called after every build attempt.
	OnBuild func(reason string, report *pipeline.Report, err error)
}

// Watcher monitors input files and triggers debounced rebuilds.
// Builds run on the watch loop goroutine, so at most one runs at a time.
type Watcher struct {
	builder  Builder
	inputs   map[string]struct{}
	dirs     []string
	opts     Options
	triggers chan string
}

// New creates a watcher for the given input paths.
func New(builder Builder, inputs []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	w := &Watcher{
		builder:  builder,
		inputs:   make(map[string]struct{}, len(inputs)),
		opts:     opts,
		triggers: make(chan string, 1),
	}
	seenDir := map[string]bool{}
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return nil, fmt.Errorf("resolve input path %s: %w", in, err)
		}
		w.inputs[abs] = struct{}{}
		// Watch the directory; editors and generators often replace files by rename.
		dir := filepath.Dir(abs)
		if !seenDir[dir] {
			seenDir[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Trigger requests a rebuild. Requests arriving while one is pending are coalesced.
func (w *Watcher) Trigger(reason string) {
	select {
	case w.triggers <- reason:
	default:
	}
}

// Run builds once, then watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch input directory %s: %w", dir, err)
		}
		slog.Info("Watching input directory", logfields.Path(dir))
	}

	if w.opts.Interval > 0 {
		scheduler, err := w.startScheduler()
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	w.build(ctx, TriggerStartup)

	var timerC <-chan time.Time
	var timer *time.Timer
	pending := ""
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Input change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			w.Trigger(TriggerFSNotify)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("Input watcher error", logfields.Error(err))

		case reason := <-w.triggers:
			pending = reason
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Stop()
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.build(ctx, pending)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if _, ok := w.inputs[filepath.Clean(event.Name)]; !ok {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) startScheduler() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(w.Trigger, TriggerSchedule),
		gocron.WithName("periodic-build"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic build job: %w", err)
	}
	s.Start()
	slog.Info("Periodic rebuilds scheduled", slog.Duration("interval", w.opts.Interval))
	return s, nil
}

func (w *Watcher) build(ctx context.Context, reason string) {
	slog.Info("Rebuilding", logfields.Trigger(reason))
	report, err := w.builder.Run(ctx)
	if err != nil {
		// The runner already logged the failure; keep watching.
		slog.Warn("Rebuild failed, waiting for next change", logfields.Trigger(reason))
	}
	if w.opts.OnBuild != nil {
		w.opts.OnBuild(reason, report, err)
	}
}
