package upload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidate_AllowedTypes(t *testing.T) {
	v := NewValidator(nil, 0)

	for _, name := range []string{"board.png", "board.jpg", "board.JPEG", "board.tiff"} {
		path := writeFile(t, name, 128)
		if err := v.Validate(path); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
	}
}

func TestValidate_RejectedTypes(t *testing.T) {
	v := NewValidator(nil, 0)

	for _, name := range []string{"board.gif", "board.bmp", "board.pdf", "board"} {
		path := writeFile(t, name, 128)
		err := v.Validate(path)
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected *ValidationError, got %T", name, err)
		}
	}
}

func TestValidate_SizeLimit(t *testing.T) {
	v := NewValidator(nil, 256)

	small := writeFile(t, "small.png", 256)
	if err := v.Validate(small); err != nil {
		t.Errorf("file at limit rejected: %v", err)
	}

	big := writeFile(t, "big.png", 257)
	if err := v.Validate(big); err == nil {
		t.Error("oversized file accepted")
	}
}

func TestValidate_MissingFile(t *testing.T) {
	v := NewValidator(nil, 0)

	if err := v.Validate(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
