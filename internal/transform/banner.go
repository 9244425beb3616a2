package transform

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// Banner prefixes the code with a preserved comment built from the metadata
// that is present. With no metadata the code is returned unchanged.
type Banner struct{}

func (Banner) TransformCode(_ context.Context, params pipeline.Params) (pipeline.Result, error) {
	header := BannerLine(params)
	if header == "" {
		return pipeline.Result{Code: params.Code}, nil
	}
	return pipeline.Result{Code: header + "\n" + params.Code}, nil
}

// BannerLine renders "/*! name version | additionalInfo */" from the present fields.
func BannerLine(params pipeline.Params) string {
	var head []string
	if params.Name != nil && *params.Name != "" {
		head = append(head, *params.Name)
	}
	if params.Version != nil && *params.Version != "" {
		head = append(head, *params.Version)
	}
	text := strings.Join(head, " ")
	if params.AdditionalInfo != nil && *params.AdditionalInfo != "" {
		if text != "" {
			text += " | "
		}
		text += *params.AdditionalInfo
	}
	if text == "" {
		return ""
	}
	// A "*/" inside the metadata would end the comment early.
	text = strings.ReplaceAll(text, "*/", "* /")
	return "/*! " + text + " */"
}
