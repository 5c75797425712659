package app

import "time"

// SowRequest completes a pending seeding request. SowDate defaults to the
// date of Now.
type SowRequest struct {
	RequestID string
	SowDate   *time.Time
	Location  string
	Now       *time.Time
}
