package staleness

import (
	"testing"
	"time"
)

func TestIsOffline(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		name      string
		last      *time.Time
		threshold time.Duration
		want      bool
	}{
		{"11 minutes ago with default threshold", ptr(now.Add(-11 * time.Minute)), 0, true},
		{"9 minutes ago with default threshold", ptr(now.Add(-9 * time.Minute)), 0, false},
		{"no reading ever received", nil, 0, true},
		{"just inside custom threshold", ptr(now.Add(-4 * time.Minute)), 5 * time.Minute, false},
		{"just outside custom threshold", ptr(now.Add(-6 * time.Minute)), 5 * time.Minute, true},
		{"fresh reading", ptr(now), 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOffline(tc.last, tc.threshold); got != tc.want {
				t.Errorf("IsOffline() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHumanize(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "less than a minute"},
		{time.Minute, "1 minute"},
		{12 * time.Minute, "12 minutes"},
		{90 * time.Minute, "1 hour"},
		{5 * time.Hour, "5 hours"},
		{26 * time.Hour, "1 day"},
		{72 * time.Hour, "3 days"},
		{-time.Minute, "less than a minute"},
	}

	for _, tc := range testCases {
		if got := Humanize(tc.d); got != tc.want {
			t.Errorf("Humanize(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestOfflineFor(t *testing.T) {
	if got := OfflineFor(nil); got != "never reported" {
		t.Errorf("OfflineFor(nil) = %q", got)
	}

	last := time.Now().Add(-3 * time.Hour)
	if got := OfflineFor(&last); got != "3 hours" {
		t.Errorf("OfflineFor(3h ago) = %q", got)
	}
}

func TestLastTimestamp(t *testing.T) {
	if got := LastTimestamp(nil); got != nil {
		t.Errorf("LastTimestamp(nil) = %v, want nil", got)
	}

	now := time.Now()
	times := []time.Time{
		now.Add(-time.Hour),
		now,
		now.Add(-10 * time.Minute),
	}

	got := LastTimestamp(times)
	if got == nil || !got.Equal(now) {
		t.Errorf("LastTimestamp() = %v, want %v", got, now)
	}
}

func ptr(t time.Time) *time.Time { return &t }
