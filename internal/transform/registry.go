package transform

import (
	"fmt"

	"git.home.luguber.info/inful/elmbuild/internal/config"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// NewSource builds the source transform described by spec.
func NewSource(spec config.TransformSpec) (pipeline.SourceTransformer, error) {
	switch spec.Type {
	case config.TransformIdentity, "":
		return Identity{}, nil
	case config.TransformCommand:
		return newCommand(spec), nil
	default:
		return nil, fmt.Errorf("%w: %q as source transform", ErrUnsupported, spec.Type)
	}
}

// NewCode builds the code transform described by spec.
func NewCode(spec config.TransformSpec) (pipeline.CodeTransformer, error) {
	switch spec.Type {
	case config.TransformIdentity, "":
		return Identity{}, nil
	case config.TransformBanner:
		return Banner{}, nil
	case config.TransformCommand:
		return newCommand(spec), nil
	default:
		return nil, fmt.Errorf("%w: %q as code transform", ErrUnsupported, spec.Type)
	}
}

// FromConfig builds both transforms for cfg.
func FromConfig(cfg *config.Config) (pipeline.SourceTransformer, pipeline.CodeTransformer, error) {
	source, err := NewSource(cfg.Transforms.Source)
	if err != nil {
		return nil, nil, err
	}
	code, err := NewCode(cfg.Transforms.Code)
	if err != nil {
		return nil, nil, err
	}
	return source, code, nil
}

func newCommand(spec config.TransformSpec) *Command {
	return &Command{
		Path: spec.Command,
		Args: append([]string(nil), spec.Args...),
		Env:  spec.Env,
		Dir:  spec.Dir,
	}
}
