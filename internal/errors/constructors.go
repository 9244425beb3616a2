package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *BuildError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Pipeline errors

func InputReadFailed(path string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "input read failed").
		WithContext("path", path)
}

func OutputWriteFailed(path string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output write failed").
		WithContext("path", path)
}

func TransformFailed(stage string, cause error) *BuildError {
	return Wrap(cause, CategoryTransform, SeverityFatal, "transform failed").
		WithContext("stage", stage)
}

func BuildCanceled(stage string, cause error) *BuildError {
	return Wrap(cause, CategoryRuntime, SeverityError, "build canceled").
		WithContext("stage", stage)
}

// External systems

func NotifyFailed(subject string, cause error) *BuildError {
	return Wrap(cause, CategoryNotify, SeverityWarning, "build notification failed").
		WithContext("subject", subject)
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
