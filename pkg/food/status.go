package food

import (
	"math"
	"time"
)

type Status string

const (
	StatusNone    Status = "none"
	StatusOk      Status = "ok"
	StatusWarning Status = "warning"
	StatusExpired Status = "expired"
)

const warningWindow = 24 * time.Hour

// StatusOf classifies an expiry timestamp relative to now. Items without an
// expiry date are shelf-stable and report StatusNone. The thresholds are
// hour-based: expired at or past the expiry instant, warning within the final
// 24 hours, ok before that.
func StatusOf(expiry *time.Time, now time.Time) Status {
	if expiry == nil {
		return StatusNone
	}

	untilExpiry := expiry.Sub(now)
	switch {
	case untilExpiry <= 0:
		return StatusExpired
	case untilExpiry <= warningWindow:
		return StatusWarning
	default:
		return StatusOk
	}
}

// DaysLeft returns the remaining whole days until expiry, rounded up, so an
// item expiring in 2.1 days reports 3. Nil when there is no expiry date.
// Display-only: classification always goes through StatusOf, which rounds on
// hours rather than days.
func DaysLeft(expiry *time.Time, now time.Time) *int {
	if expiry == nil {
		return nil
	}

	days := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	return &days
}
