package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/elmbuild/internal/config"
	"git.home.luguber.info/inful/elmbuild/internal/metrics"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Input    []string `short:"i" name:"input" help:"Input script, repeatable (overrides config inputs)"`
	Output   string   `short:"o" help:"Destination file (overrides config output)"`
	Metadata []string `arg:"" optional:"" passthrough:"partial" name:"metadata" help:"Name, version and additional info, in that order"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	b.applyOverrides(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := RunBuild(ctx, cfg, b.Metadata)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Stdout, "Wrote %s (%d bytes)\n", report.OutputPath, report.Bytes)
	return nil
}

func (b *BuildCmd) applyOverrides(cfg *config.Config) {
	if len(b.Input) > 0 {
		cfg.Inputs = b.Input
	}
	if b.Output != "" {
		cfg.Output = b.Output
	}
}

// RunBuild performs one build with metadata taken positionally from args.
func RunBuild(ctx context.Context, cfg *config.Config, args []string) (*pipeline.Report, error) {
	name, version, info := MetadataArgs(args)
	runner, cleanup, err := NewRunner(cfg, cfg.Pipeline(name, version, info), metrics.NoopRecorder{})
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return runner.Run(ctx)
}

// MetadataArgs maps up to three positional arguments to name, version and
// additional info. Missing ones are nil; extra ones are ignored.
func MetadataArgs(args []string) (name, version, additionalInfo *string) {
	at := func(i int) *string {
		if i >= len(args) {
			return nil
		}
		v := args[i]
		return &v
	}
	if len(args) > 3 {
		slog.Debug("Ignoring extra positional arguments", slog.Any("extra", args[3:]))
	}
	return at(0), at(1), at(2)
}
