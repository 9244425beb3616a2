package transform

import (
	"context"

	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// Identity returns its input unchanged in both stages.
type Identity struct{}

func (Identity) TransformSource(_ context.Context, code string) (string, error) {
	return code, nil
}

func (Identity) TransformCode(_ context.Context, params pipeline.Params) (pipeline.Result, error) {
	return pipeline.Result{Code: params.Code}, nil
}
