package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/elmbuild/internal/errors"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.ValidationFailed("inputs", "at least one input is required")
	}
	for i, in := range c.Inputs {
		if strings.TrimSpace(in) == "" {
			return errors.ValidationFailed(fmt.Sprintf("inputs[%d]", i), "empty path")
		}
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.ValidationFailed("output", "empty path")
	}
	if err := validateTransform("transforms.source", c.Transforms.Source, false); err != nil {
		return err
	}
	if err := validateTransform("transforms.code", c.Transforms.Code, true); err != nil {
		return err
	}
	if c.Watch.Interval < 0 {
		return errors.ValidationFailed("watch.interval", "must not be negative")
	}
	return nil
}

func validateTransform(field string, spec TransformSpec, codeStage bool) error {
	switch spec.Type {
	case TransformIdentity:
		return nil
	case TransformBanner:
		if !codeStage {
			return errors.ValidationFailed(field+".type", "banner is only available as a code transform")
		}
		return nil
	case TransformCommand:
		if strings.TrimSpace(spec.Command) == "" {
			return errors.ValidationFailed(field+".command", "required for command transforms")
		}
		return nil
	default:
		return errors.ValidationFailed(field+".type", fmt.Sprintf("unsupported value %q", spec.Type))
	}
}
