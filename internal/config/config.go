package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/elmbuild/internal/errors"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// DefaultPath is read when no --config flag is given. Its absence is not an error.
const DefaultPath = "elmbuild.yaml"

// Config represents the elmbuild configuration file.
type Config struct {
	Inputs     []string         `yaml:"inputs,omitempty"`
	Output     string           `yaml:"output,omitempty"`
	Transforms TransformsConfig `yaml:"transforms"`
	Logging    LoggingConfig    `yaml:"logging"`
	History    HistoryConfig    `yaml:"history,omitempty"`
	Notify     NotifyConfig     `yaml:"notify,omitempty"`
	Watch      WatchConfig      `yaml:"watch,omitempty"`
}

// TransformsConfig selects the source and code transform back ends.
type TransformsConfig struct {
	Source TransformSpec `yaml:"source"`
	Code   TransformSpec `yaml:"code"`
}

// TransformSpec configures one transform back end.
type TransformSpec struct {
	Type    TransformType     `yaml:"type"`
	Command string            `yaml:"command,omitempty"` // command type only
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Dir     string            `yaml:"dir,omitempty"`
}

// HistoryConfig enables the SQLite build history when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig enables NATS build notifications when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"` // 0 disables periodic rebuilds
}

// Load loads configuration from the specified file. A missing file is an error.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.ConfigInvalid(configPath, fmt.Errorf("read: %w", err))
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.ConfigInvalid(configPath, fmt.Errorf("unmarshal: %w", err))
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional loads configPath when it exists and falls back to Default otherwise.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFiles()
		return Default(), nil
	}
	return Load(configPath)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if len(cfg.Inputs) == 0 {
		cfg.Inputs = []string{pipeline.DefaultInputPath}
	}
	if cfg.Output == "" {
		cfg.Output = pipeline.DefaultOutputPath
	}
	if cfg.Transforms.Source.Type == "" {
		cfg.Transforms.Source.Type = TransformIdentity
	}
	if cfg.Transforms.Code.Type == "" {
		cfg.Transforms.Code.Type = TransformIdentity
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "elmbuild.built"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

// Pipeline converts the file configuration plus CLI metadata into a runner config.
func (c *Config) Pipeline(name, version, additionalInfo *string) pipeline.Config {
	return pipeline.Config{
		InputPaths:     append([]string(nil), c.Inputs...),
		OutputPath:     c.Output,
		Name:           name,
		Version:        version,
		AdditionalInfo: additionalInfo,
	}
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationFailed("config", fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	example := Config{
		Inputs: []string{pipeline.DefaultInputPath},
		Output: pipeline.DefaultOutputPath,
		Transforms: TransformsConfig{
			Source: TransformSpec{
				Type:    TransformCommand,
				Command: "node",
				Args:    []string{"transformer.js", "elm"},
			},
			Code: TransformSpec{Type: TransformBanner},
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Watch:   WatchConfig{Debounce: 500 * time.Millisecond},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.InternalError("failed to marshal config", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to write config file").
			WithContext("path", configPath)
	}
	return nil
}
