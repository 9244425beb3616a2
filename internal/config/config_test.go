package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/elmbuild/internal/errors"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "elmbuild.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "logging:\n  level: DEBUG\n"))
	require.NoError(t, err)

	require.Equal(t, []string{pipeline.DefaultInputPath}, cfg.Inputs)
	require.Equal(t, pipeline.DefaultOutputPath, cfg.Output)
	require.Equal(t, TransformIdentity, cfg.Transforms.Source.Type)
	require.Equal(t, TransformIdentity, cfg.Transforms.Code.Type)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
	require.Equal(t, "elmbuild.built", cfg.Notify.Subject)
	require.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_FullFile(t *testing.T) {
	t.Setenv("ELMBUILD_TEST_NODE", "/usr/bin/node")
	cfg, err := Load(writeConfig(t, `
inputs:
  - ./tmp/a.js
  - ./tmp/b.js
output: ./public/bundle.js
transforms:
  source:
    type: command
    command: ${ELMBUILD_TEST_NODE}
    args: [transformer.js, elm]
  code:
    type: banner
logging:
  format: json
history:
  path: ./history.db
notify:
  nats_url: nats://localhost:4222
watch:
  debounce: 2s
  interval: 1m
`))
	require.NoError(t, err)
	require.Equal(t, []string{"./tmp/a.js", "./tmp/b.js"}, cfg.Inputs)
	require.Equal(t, "./public/bundle.js", cfg.Output)
	require.Equal(t, "/usr/bin/node", cfg.Transforms.Source.Command)
	require.Equal(t, []string{"transformer.js", "elm"}, cfg.Transforms.Source.Args)
	require.Equal(t, TransformBanner, cfg.Transforms.Code.Type)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
	require.Equal(t, "./history.db", cfg.History.Path)
	require.Equal(t, "nats://localhost:4222", cfg.Notify.NATSURL)
	require.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	require.Equal(t, time.Minute, cfg.Watch.Interval)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.IsCategory(err, errors.CategoryConfig))

	_, err = Load(writeConfig(t, "inputs: [unterminated\n"))
	require.True(t, errors.IsCategory(err, errors.CategoryConfig))

	_, err = Load(writeConfig(t, "transforms:\n  source:\n    type: banner\n"))
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, err = Load(writeConfig(t, "transforms:\n  code:\n    type: command\n"))
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, err = Load(writeConfig(t, "transforms:\n  code:\n    type: minify\n"))
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), DefaultPath))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestInit(t *testing.T) {
	p := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(p, false))

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, TransformCommand, cfg.Transforms.Source.Type)
	require.Equal(t, TransformBanner, cfg.Transforms.Code.Type)

	err = Init(p, false)
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
	require.NoError(t, Init(p, true))
}

func TestConfig_Pipeline(t *testing.T) {
	name := "pacman"
	cfg := Default()
	pc := cfg.Pipeline(&name, nil, nil)

	require.Equal(t, cfg.Inputs, pc.InputPaths)
	require.Equal(t, cfg.Output, pc.OutputPath)
	require.Equal(t, &name, pc.Name)
	require.Nil(t, pc.Version)
	require.Nil(t, pc.AdditionalInfo)
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level   LogLevel
		verbose bool
		want    slog.Level
	}{
		{LogLevelInfo, false, slog.LevelInfo},
		{LogLevelInfo, true, slog.LevelDebug},
		{LogLevelWarn, false, slog.LevelWarn},
		{LogLevelError, false, slog.LevelError},
		{LogLevelDebug, false, slog.LevelDebug},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, LoggingConfig{Level: tt.level}.SlogLevel(tt.verbose))
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	require.Equal(t, LogFormatText, NormalizeLogFormat(""))
}

func TestLoadEnvFiles_WarnsOnUnreadableFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir(".env", 0o755))

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	loadEnvFiles()
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "path=.env")
}
