package auth

import "time"

// IsWithinThresholdPeriod reports whether t is no older than threshold.
func IsWithinThresholdPeriod(t time.Time, threshold time.Duration) bool {
	return time.Since(t) <= threshold
}

// IsOutsideThresholdPeriod reports whether t is older than threshold.
func IsOutsideThresholdPeriod(t time.Time, threshold time.Duration) bool {
	return !IsWithinThresholdPeriod(t, threshold)
}
