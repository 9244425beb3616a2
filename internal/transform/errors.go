package transform

import "errors"

var (
	// ErrCommandNotFound indicates the transform executable was not found.
	ErrCommandNotFound = errors.New("transform command not found")
	// ErrCommandFailed indicates the transform command exited non-zero.
	ErrCommandFailed = errors.New("transform command failed")
	// ErrInvalidResult indicates the code transform printed something other than a result record.
	ErrInvalidResult = errors.New("transform result invalid")
	// ErrUnsupported indicates a transform type unavailable for the requested stage.
	ErrUnsupported = errors.New("transform type unsupported")
)
