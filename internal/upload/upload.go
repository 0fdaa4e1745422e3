// Package upload validates image files before they reach the
// transport boundary. Violations are reported as validation errors and
// the request is never sent.
package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the default upload cap (10 MB), matching the
// analysis service's own limit.
const MaxFileSize = 10 * 1024 * 1024

// DefaultAllowedExtensions are the image types the analysis service
// accepts.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "tiff"}

// ValidationError reports a file that failed pre-upload validation.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid upload %q: %s", filepath.Base(e.Path), e.Reason)
}

// Validator checks files against an extension allow-list and a size
// cap.
type Validator struct {
	allowed map[string]struct{}
	maxSize int64
}

// NewValidator creates a Validator. Extensions are matched without the
// leading dot, case-insensitively. A non-positive maxSize falls back
// to MaxFileSize.
func NewValidator(extensions []string, maxSize int64) *Validator {
	if len(extensions) == 0 {
		extensions = DefaultAllowedExtensions
	}
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Validator{allowed: allowed, maxSize: maxSize}
}

// Validate checks one file. Returns a *ValidationError on violation.
func (v *Validator) Validate(path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return &ValidationError{Path: path, Reason: "file has no extension"}
	}
	if _, ok := v.allowed[ext]; !ok {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("file type %q not allowed", ext)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("cannot stat file: %v", err)}
	}
	if info.IsDir() {
		return &ValidationError{Path: path, Reason: "path is a directory"}
	}
	if info.Size() > v.maxSize {
		return &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("file size %d exceeds limit %d", info.Size(), v.maxSize),
		}
	}
	return nil
}
