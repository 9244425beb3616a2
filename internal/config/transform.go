package config

// TransformType names a transform back end.
type TransformType string

const (
	TransformIdentity TransformType = "identity"
	TransformBanner   TransformType = "banner"
	TransformCommand  TransformType = "command"
)
