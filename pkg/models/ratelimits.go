package models

import "time"

// RateLimits contains the provider-reported request budget, taken from the
// x-requests-remaining / x-requests-used response headers.
type RateLimits struct {
	RequestsRemaining int
	RequestsUsed      int
	UpdatedAt         time.Time
}
