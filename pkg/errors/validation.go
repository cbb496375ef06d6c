package errors

import (
	"math"
	"unicode"
)

// MaxDimension bounds each volume axis. Linear voxel ids must stay well inside
// int64 and the distance field is quadratic in the voxel count, so larger
// grids are rejected up front.
const MaxDimension = 4096

// ValidateDimensions validates the extents of an occupancy volume.
// Every axis must be positive and no larger than [MaxDimension].
func ValidateDimensions(sx, sy, sz int) error {
	for i, n := range []int{sx, sy, sz} {
		if n <= 0 {
			return New(ErrCodeInvalidVolume, "dimension %c must be positive, got %d", "xyz"[i], n)
		}
		if n > MaxDimension {
			return New(ErrCodeInvalidVolume, "dimension %c too large (max %d), got %d", "xyz"[i], MaxDimension, n)
		}
	}
	return nil
}

// ValidatePath validates a user supplied file system path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
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

// ValidateNonNegative validates a finite, non-negative configuration value.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be non-negative, got %v", name, v)
	}
	return nil
}

// ValidateFraction validates a value in the closed interval [0, 1].
func ValidateFraction(name string, v float64) error {
	if err := ValidateNonNegative(name, v); err != nil {
		return err
	}
	if v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be at most 1, got %v", name, v)
	}
	return nil
}
