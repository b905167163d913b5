package food

import (
	"testing"
	"time"
)

func ts(t time.Time) *time.Time {
	return &t
}

func TestStatusOf(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry *time.Time
		want   Status
	}{
		{"no expiry date", nil, StatusNone},
		{"expired an hour ago", ts(now.Add(-time.Hour)), StatusExpired},
		{"expires exactly now", ts(now), StatusExpired},
		{"expires in one hour", ts(now.Add(time.Hour)), StatusWarning},
		{"expires in exactly 24 hours", ts(now.Add(24 * time.Hour)), StatusWarning},
		{"expires just past 24 hours", ts(now.Add(24*time.Hour + time.Minute)), StatusOk},
		{"expires next week", ts(now.Add(7 * 24 * time.Hour)), StatusOk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.expiry, now); got != tt.want {
				t.Errorf("StatusOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusOfIsPure(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	expiry := ts(now.Add(10 * time.Hour))

	first := StatusOf(expiry, now)
	second := StatusOf(expiry, now)
	if first != second {
		t.Errorf("repeated calls differ: %q then %q", first, second)
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry *time.Time
		want   int
	}{
		{"expires in 2.1 days rounds up to 3", ts(now.Add(50*time.Hour + 24*time.Minute)), 3},
		{"expires in exactly 2 days", ts(now.Add(48 * time.Hour)), 2},
		{"expires in 12 hours", ts(now.Add(12 * time.Hour)), 1},
		{"expires now", ts(now), 0},
		{"expired 30 hours ago", ts(now.Add(-30 * time.Hour)), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysLeft(tt.expiry, now)
			if got == nil {
				t.Fatal("DaysLeft() = nil, want value")
			}
			if *got != tt.want {
				t.Errorf("DaysLeft() = %d, want %d", *got, tt.want)
			}
		})
	}
}

func TestDaysLeftNoExpiry(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if got := DaysLeft(nil, now); got != nil {
		t.Errorf("DaysLeft(nil) = %d, want nil", *got)
	}
}

// An item expiring in 2.1 days reports 3 days left but still classifies on
// hours: just inside 24h it is warning even though DaysLeft says 1.
func TestDayCountDoesNotDriveClassification(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	expiry := ts(now.Add(23 * time.Hour))

	if got := StatusOf(expiry, now); got != StatusWarning {
		t.Errorf("StatusOf() = %q, want %q", got, StatusWarning)
	}
	if got := DaysLeft(expiry, now); got == nil || *got != 1 {
		t.Errorf("DaysLeft() = %v, want 1", got)
	}
}
