package common

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ParseTimestamp parses a timestamp that is either a count of milliseconds since the epoch or a string in
// RFC 3339 format with optional fractional seconds. An empty string yields the zero time.
func ParseTimestamp(timestamp string) (time.Time, error) {
	if timestamp == "" {
		return time.Time{}, nil
	}

	// Try milliseconds since the epoch first.
	if millis, err := strconv.ParseInt(timestamp, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}

	// Fall back to RFC 3339, which also accepts fractional seconds.
	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "unable to parse timestamp `%s`", timestamp)
	}
	return parsed.UTC(), nil
}
