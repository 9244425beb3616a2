package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"

	"git.home.luguber.info/inful/elmbuild/internal/logfields"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// Command runs an external collaborator program for either stage.
type Command struct {
	Path string
	Args []string
	Env  map[string]string
	Dir  string
}

func (c *Command) TransformSource(ctx context.Context, code string) (string, error) {
	out, err := c.run(ctx, []byte(code))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *Command) TransformCode(ctx context.Context, params pipeline.Params) (pipeline.Result, error) {
	in, err := json.Marshal(params)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("marshal params: %w", err)
	}
	out, err := c.run(ctx, in)
	if err != nil {
		return pipeline.Result{}, err
	}
	var res pipeline.Result
	if err := json.Unmarshal(out, &res); err != nil {
		return pipeline.Result{}, fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	return res, nil
}

func (c *Command) String() string {
	return fmt.Sprintf("%s %v", c.Path, c.Args)
}

func (c *Command) run(ctx context.Context, stdin []byte) ([]byte, error) {
	bin, err := exec.LookPath(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommandNotFound, err)
	}

	cmd := exec.CommandContext(ctx, bin, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.environ()
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("Invoking transform command", logfields.Transform(c.String()), logfields.Bytes(len(stdin)))

	err = cmd.Run()

	if errStr := stderr.String(); errStr != "" {
		slog.Warn("transform stderr", logfields.Transform(c.Path), slog.String("error_output", errStr))
	}
	if err != nil {
		if errStr := stderr.String(); errStr != "" {
			return nil, fmt.Errorf("%w: %w: %s", ErrCommandFailed, err, errStr)
		}
		return nil, fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}
	return stdout.Bytes(), nil
}

// environ returns the process environment plus Env in a stable order.
func (c *Command) environ() []string {
	env := os.Environ()
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+c.Env[k])
	}
	return env
}
