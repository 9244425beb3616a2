package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/elmbuild/internal/errors"
	"git.home.luguber.info/inful/elmbuild/internal/logfields"
	"git.home.luguber.info/inful/elmbuild/internal/metrics"
)

// Stage names used in logs, metrics and errors.
const (
	StageRead            = "read"
	StageSourceTransform = "source_transform"
	StageJoin            = "join"
	StageCodeTransform   = "code_transform"
	StageWrite           = "write"
)

// Runner executes read → transform → join → transform → write.
type Runner struct {
	cfg      Config
	source   SourceTransformer
	code     CodeTransformer
	recorder metrics.Recorder
	events   EventStore
	notifier Notifier
	logger   *slog.Logger
	newID    func() string
}

// RunnerOption configures optional runner collaborators.
type RunnerOption func(*Runner)

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) RunnerOption {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithEventStore persists BuildStarted/BuildCompleted/BuildFailed events.
func WithEventStore(store EventStore) RunnerOption {
	return func(r *Runner) { r.events = store }
}

// WithNotifier announces successful builds.
func WithNotifier(n Notifier) RunnerOption {
	return func(r *Runner) { r.notifier = n }
}

// WithLogger overrides slog.Default().
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIDGenerator overrides the uuid build ID source.
func WithIDGenerator(fn func() string) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRunner creates a runner. Empty paths in cfg fall back to the defaults.
func NewRunner(cfg Config, source SourceTransformer, code CodeTransformer, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:      cfg.WithDefaults(),
		source:   source,
		code:     code,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// Run performs one build. Nothing is written unless every earlier step succeeds.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	buildID := r.newID()
	log := r.logger.With(logfields.BuildID(buildID))

	event := BuildEvent{BuildID: buildID, Inputs: r.cfg.InputPaths, Output: r.cfg.OutputPath}
	r.appendEvent(ctx, log, buildID, EventBuildStarted, event)
	log.Info("Starting build", slog.Any("inputs", r.cfg.InputPaths), logfields.Output(r.cfg.OutputPath))

	report, err := r.run(ctx, log)
	elapsed := time.Since(start)
	r.recorder.ObserveBuildDuration(elapsed)
	event.DurationMS = elapsed.Milliseconds()

	if err != nil {
		if errors.IsCategory(err, errors.CategoryRuntime) {
			r.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		} else {
			r.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		}
		event.Error = err.Error()
		r.appendEvent(ctx, log, buildID, EventBuildFailed, event)
		log.Error("Build failed", logfields.Error(err))
		return nil, err
	}

	report.BuildID = buildID
	report.Duration = elapsed
	r.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	r.recorder.SetOutputBytes(report.Bytes)

	event.Bytes = report.Bytes
	event.Checksum = report.Checksum
	r.appendEvent(ctx, log, buildID, EventBuildCompleted, event)

	if r.notifier != nil {
		if nerr := r.notifier.NotifyBuilt(ctx, report); nerr != nil {
			log.Warn("Build notification failed", logfields.Error(nerr))
		}
	}

	log.Info("Build completed",
		logfields.Output(report.OutputPath),
		logfields.Bytes(report.Bytes),
		logfields.Checksum(report.Checksum),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return report, nil
}

func (r *Runner) run(ctx context.Context, log *slog.Logger) (*Report, error) {
	var sources []string
	err := r.stage(ctx, log, StageRead, func() error {
		sources = make([]string, 0, len(r.cfg.InputPaths))
		for _, p := range r.cfg.InputPaths {
			data, err := os.ReadFile(p)
			if err != nil {
				return errors.InputReadFailed(p, err)
			}
			log.Debug("Read input", logfields.Input(p), logfields.Bytes(len(data)))
			sources = append(sources, string(data))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	transformed := make([]string, 0, len(sources))
	err = r.stage(ctx, log, StageSourceTransform, func() error {
		for i, src := range sources {
			out, err := r.source.TransformSource(ctx, src)
			if err != nil {
				return errors.TransformFailed(StageSourceTransform, err).
					WithContext("path", r.cfg.InputPaths[i])
			}
			transformed = append(transformed, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var joined string
	err = r.stage(ctx, log, StageJoin, func() error {
		joined = Join(transformed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var result Result
	err = r.stage(ctx, log, StageCodeTransform, func() error {
		res, err := r.code.TransformCode(ctx, r.params(joined))
		if err != nil {
			return errors.TransformFailed(StageCodeTransform, err)
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, log, StageWrite, func() error {
		if err := os.WriteFile(r.cfg.OutputPath, []byte(result.Code), 0o644); err != nil {
			return errors.OutputWriteFailed(r.cfg.OutputPath, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(result.Code))
	return &Report{
		InputPaths: r.cfg.InputPaths,
		OutputPath: r.cfg.OutputPath,
		Bytes:      len(result.Code),
		Checksum:   hex.EncodeToString(sum[:]),
	}, nil
}

// params builds the code transform record. Absent metadata stays nil.
func (r *Runner) params(code string) Params {
	return Params{
		Code:           code,
		Name:           r.cfg.Name,
		Version:        r.cfg.Version,
		AdditionalInfo: r.cfg.AdditionalInfo,
	}
}

// stage runs fn after a cancellation check and records its duration and result.
func (r *Runner) stage(ctx context.Context, log *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		r.recorder.IncStageResult(name, metrics.ResultCanceled)
		return errors.BuildCanceled(name, err)
	}
	start := time.Now()
	err := fn()
	r.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		r.recorder.IncStageResult(name, metrics.ResultFatal)
		return err
	}
	r.recorder.IncStageResult(name, metrics.ResultSuccess)
	log.Debug("Stage completed", logfields.Stage(name))
	return nil
}

func (r *Runner) appendEvent(ctx context.Context, log *slog.Logger, buildID, eventType string, e BuildEvent) {
	if r.events == nil {
		return
	}
	// A canceled build still gets its BuildFailed event.
	if err := r.events.Append(context.WithoutCancel(ctx), buildID, eventType, e.encode(), map[string]string{"output": e.Output}); err != nil {
		log.Warn("Failed to persist build event", slog.String("event", eventType), logfields.Error(err))
	}
}

// Join concatenates transformed sources with Separator.
func Join(parts []string) string {
	return strings.Join(parts, Separator)
}
