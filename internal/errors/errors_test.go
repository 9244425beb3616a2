package errors

import (
	stdErrors "errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestBuildError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuildError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryFileSystem, SeverityFatal, "input read failed"),
			expected: "filesystem (fatal): input read failed: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestBuildError_WithContext(t *testing.T) {
	err := New(CategoryTransform, SeverityWarning, "transform failed").
		WithContext("stage", "source").
		WithContext("path", "tmp/a.js")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["stage"] != "source" {
		t.Errorf("Context[stage] = %v, want source", err.Context["stage"])
	}
	if err.Context["path"] != "tmp/a.js" {
		t.Errorf("Context[path] = %v, want tmp/a.js", err.Context["path"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	fsErr := InputReadFailed("missing.js", fs.ErrNotExist)
	wrapped := fmt.Errorf("run: %w", fsErr)
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match filesystem category", configErr, CategoryFileSystem, false},
		{"filesystem error matches filesystem category", fsErr, CategoryFileSystem, true},
		{"wrapped error is unwrapped", wrapped, CategoryFileSystem, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory(plain) = %v, want %v", got, CategoryInternal)
	}
	if got := GetCategory(TransformFailed("code", fmt.Errorf("boom"))); got != CategoryTransform {
		t.Errorf("GetCategory(transform) = %v, want %v", got, CategoryTransform)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/elmbuild.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/elmbuild.yaml" {
			t.Errorf("Context[path] = %v, want /path/to/elmbuild.yaml", err.Context["path"])
		}
	})

	t.Run("InputReadFailed", func(t *testing.T) {
		err := InputReadFailed("tmp/elm-pacman.js", fs.ErrNotExist)
		if !stdErrors.Is(err, fs.ErrNotExist) {
			t.Errorf("cause should match wrapped fs.ErrNotExist")
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("transforms.code.type", "unsupported value")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["field"] != "transforms.code.type" {
			t.Errorf("Context[field] = %v, want transforms.code.type", err.Context["field"])
		}
		if err.Context["reason"] != "unsupported value" {
			t.Errorf("Context[reason] = %v, want unsupported value", err.Context["reason"])
		}
	})
}
