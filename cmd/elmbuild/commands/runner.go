package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/elmbuild/internal/config"
	"git.home.luguber.info/inful/elmbuild/internal/eventstore"
	"git.home.luguber.info/inful/elmbuild/internal/logfields"
	"git.home.luguber.info/inful/elmbuild/internal/metrics"
	"git.home.luguber.info/inful/elmbuild/internal/notify"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
	"git.home.luguber.info/inful/elmbuild/internal/transform"
)

// NewRunner wires transforms, history and notifications from cfg.
// The returned cleanup closes whatever was opened.
func NewRunner(cfg *config.Config, pc pipeline.Config, rec metrics.Recorder) (*pipeline.Runner, func(), error) {
	source, code, err := transform.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	opts := []pipeline.RunnerOption{pipeline.WithRecorder(rec)}

	if cfg.History.Path != "" {
		store, err := eventstore.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close build history", logfields.Error(err))
			}
		})
		opts = append(opts, pipeline.WithEventStore(store))
	}

	if cfg.Notify.NATSURL != "" {
		n, err := notify.NewNATSNotifier(cfg.Notify)
		if err != nil {
			// Notifications are best effort; the build itself can still run.
			slog.Warn("Build notifications disabled", logfields.Error(err))
		} else {
			closers = append(closers, n.Close)
			opts = append(opts, pipeline.WithNotifier(n))
		}
	}

	return pipeline.NewRunner(pc, source, code, opts...), cleanup, nil
}
