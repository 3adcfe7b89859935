package timeutil

import "time"

// Now returns the current time in UTC
// Always use this instead of time.Now() to ensure timezone consistency
func Now() time.Time {
	return time.Now().UTC()
}

// Timestamp formats t as the gateway's envelope timestamp (RFC 3339, UTC)
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
