package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateImageName validates a drawing image name before it is joined with
// the asset directory. Names are slash-separated paths relative to that
// directory, such as "a-arch-C.png" or "buildingA/a-arch-C.png".
//
// Rejected:
//   - empty names and names over 256 bytes
//   - control characters, null bytes and backslashes
//   - absolute names, empty segments and "." or ".." segments
//   - hidden files and folders (a segment starting with ".")
func ValidateImageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "image name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPath, "image name too long (max 256 bytes)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "image name contains invalid control characters")
		}
	}

	if strings.Contains(name, "\\") {
		return New(ErrCodeInvalidPath, "image name contains invalid characters: %q", "\\")
	}

	if strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidPath, "image name must be relative to the asset directory")
	}

	for seg := range strings.SplitSeq(name, "/") {
		switch {
		case seg == "":
			return New(ErrCodeInvalidPath, "image name has an empty path segment")
		case seg == "." || seg == "..":
			return New(ErrCodeInvalidPath, "image name contains invalid characters: %q", seg)
		case strings.HasPrefix(seg, "."):
			return New(ErrCodeInvalidPath, "image name cannot be a hidden file")
		}
	}

	return nil
}

// ValidatePath validates a local file path taken from configuration or flags.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateScale checks a manual calibration scale factor.
// Scale is a multiplicative factor around the transform origin and must be
// finite and positive.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return New(ErrCodeInvalidCalibration, "scale must be a finite number")
	}
	if scale <= 0 {
		return New(ErrCodeInvalidCalibration, "scale must be positive, got %g", scale)
	}
	return nil
}

// ValidateFinite checks that a calibration component is a finite number.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidCalibration, "%s must be a finite number", field)
	}
	return nil
}
