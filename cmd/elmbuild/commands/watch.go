package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/elmbuild/internal/config"
	"git.home.luguber.info/inful/elmbuild/internal/logfields"
	"git.home.luguber.info/inful/elmbuild/internal/metrics"
	"git.home.luguber.info/inful/elmbuild/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Input       []string      `short:"i" name:"input" help:"Input script, repeatable (overrides config inputs)"`
	Output      string        `short:"o" help:"Destination file (overrides config output)"`
	Interval    time.Duration `help:"Also rebuild on this fixed interval (overrides watch.interval)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address, e.g. :9100"`
	Metadata    []string      `arg:"" optional:"" passthrough:"partial" name:"metadata" help:"Name, version and additional info, in that order"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if len(w.Input) > 0 {
		cfg.Inputs = w.Input
	}
	if w.Output != "" {
		cfg.Output = w.Output
	}
	if w.Interval > 0 {
		cfg.Watch.Interval = w.Interval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunWatch(ctx, cfg, w.Metadata, w.MetricsAddr)
}

// RunWatch rebuilds on input changes until ctx is canceled.
func RunWatch(ctx context.Context, cfg *config.Config, args []string, metricsAddr string) error {
	var rec metrics.Recorder = metrics.NoopRecorder{}
	if metricsAddr != "" {
		reg := metrics.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		srv := &http.Server{Addr: metricsAddr, Handler: metricsMux(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("Serving metrics", slog.String("addr", metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	name, version, info := MetadataArgs(args)
	runner, cleanup, err := NewRunner(cfg, cfg.Pipeline(name, version, info), rec)
	if err != nil {
		return err
	}
	defer cleanup()

	w, err := watch.New(runner, runner.Config().InputPaths, watch.Options{
		Debounce: cfg.Watch.Debounce,
		Interval: cfg.Watch.Interval,
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
