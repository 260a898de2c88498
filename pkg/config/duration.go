package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration returns an error unless d > 0.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateDurationRange returns an error unless min <= d <= max.
//
// Example:
//
//	// HTTP timeout between one second and two minutes
//	if err := ValidateDurationRange(timeout, time.Second, 2*time.Minute); err != nil {
//	    return fmt.Errorf("NEWS_HTTP_TIMEOUT: %w", err)
//	}
func ValidateDurationRange(d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if d < min {
		return fmt.Errorf("duration %v is below minimum %v", d, min)
	}
	if d > max {
		return fmt.Errorf("duration %v exceeds maximum %v", d, max)
	}
	return nil
}

// ValidateRatio returns an error unless 0 < r <= 1.
func ValidateRatio(r float64) error {
	if r <= 0 || r > 1 {
		return fmt.Errorf("ratio must be in (0, 1], got %v", r)
	}
	return nil
}
