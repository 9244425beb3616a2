// Package pipeline reads generated script artifacts, runs them through the
// source and code transforms, and writes the combined result.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DefaultInputPath is the generated script read when no inputs are configured.
	DefaultInputPath = "./tmp/elm-pacman.js"
	// DefaultOutputPath is where the transformed bundle is written.
	DefaultOutputPath = "./docs/elm-pacman.js"
	// Separator joins the transformed inputs.
	Separator = ";"
)

// Config describes one pipeline run. Name, Version and AdditionalInfo are nil
// when the caller did not supply them; the runner passes nil through as-is.
type Config struct {
	InputPaths     []string
	OutputPath     string
	Name           *string
	Version        *string
	AdditionalInfo *string
}

// WithDefaults returns a copy of c with empty paths replaced by the defaults.
func (c Config) WithDefaults() Config {
	if len(c.InputPaths) == 0 {
		c.InputPaths = []string{DefaultInputPath}
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	return c
}

// Params is the record handed to the code transform.
type Params struct {
	Code           string  `json:"code"`
	Name           *string `json:"name,omitempty"`
	Version        *string `json:"version,omitempty"`
	AdditionalInfo *string `json:"additionalInfo,omitempty"`
}

// Result is the record returned by the code transform. Fields other than
// code are kept in Extra.
type Result struct {
	Code  string
	Extra map[string]any
}

// UnmarshalJSON requires a string "code" field and keeps the rest in Extra.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	codeRaw, ok := raw["code"]
	if !ok {
		return fmt.Errorf("result has no code field")
	}
	var code *string
	if err := json.Unmarshal(codeRaw, &code); err != nil {
		return fmt.Errorf("result code field: %w", err)
	}
	if code == nil {
		return fmt.Errorf("result code field is null")
	}
	r.Code = *code
	delete(raw, "code")
	if len(raw) == 0 {
		r.Extra = nil
		return nil
	}
	r.Extra = make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("result field %s: %w", k, err)
		}
		r.Extra[k] = val
	}
	return nil
}

// MarshalJSON flattens Extra next to code.
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+1)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["code"] = r.Code
	return json.Marshal(out)
}

// SourceTransformer is the context-free text to text transform.
type SourceTransformer interface {
	TransformSource(ctx context.Context, code string) (string, error)
}

// CodeTransformer is the metadata-aware transform.
type CodeTransformer interface {
	TransformCode(ctx context.Context, params Params) (Result, error)
}

// SourceFunc adapts a function to SourceTransformer.
type SourceFunc func(ctx context.Context, code string) (string, error)

func (f SourceFunc) TransformSource(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}

// CodeFunc adapts a function to CodeTransformer.
type CodeFunc func(ctx context.Context, params Params) (Result, error)

func (f CodeFunc) TransformCode(ctx context.Context, params Params) (Result, error) {
	return f(ctx, params)
}

// Report summarises a successful run.
type Report struct {
	BuildID    string        `json:"build_id"`
	InputPaths []string      `json:"inputs"`
	OutputPath string        `json:"output"`
	Bytes      int           `json:"bytes"`
	Checksum   string        `json:"sha256"`
	Duration   time.Duration `json:"duration"`
}

// EventStore defines the interface for persisting build events.
// This is a subset of eventstore.Store to avoid circular dependencies.
type EventStore interface {
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error
}

// Notifier announces completed builds to downstream consumers.
type Notifier interface {
	NotifyBuilt(ctx context.Context, report *Report) error
}
