// Package staleness decides whether a device's last-known reading is
// still fresh. All functions are pure; both the API layer and the
// monitoring orchestrator call them.
package staleness

import (
	"fmt"
	"time"
)

// DefaultThreshold is the freshness window used when no override is
// configured
const DefaultThreshold = 10 * time.Minute

// IsOffline reports whether a device is offline given its most recent
// reading timestamp. A device that never reported is offline.
func IsOffline(last *time.Time, threshold time.Duration) bool {
	if last == nil {
		return true
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return time.Since(*last) > threshold
}

// OfflineFor returns a humanized duration since the device went quiet,
// or "never reported" when no reading was ever received
func OfflineFor(last *time.Time) string {
	if last == nil {
		return "never reported"
	}
	return Humanize(time.Since(*last))
}

// Humanize renders a duration in the coarsest sensible unit
func Humanize(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return "less than a minute"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Hours()/24), "day")
	}
}

// LastTimestamp returns the newest of a reading timestamp list, or nil
// for an empty list
func LastTimestamp(times []time.Time) *time.Time {
	if len(times) == 0 {
		return nil
	}

	latest := times[0]
	for _, t := range times[1:] {
		if t.After(latest) {
			latest = t
		}
	}
	return &latest
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
