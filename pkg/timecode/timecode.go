// Package timecode converts between integer seconds and the display
// timestamps used by video transcript rows ("1:02:03", "2:05").
package timecode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// strictPattern matches the timestamps accepted at publish time: an optional
// 1-2 digit hour, then minutes and seconds in the range 00-59.
var strictPattern = regexp.MustCompile(`^(?:\d{1,2}:)?[0-5]?\d:[0-5]\d$`)

// Format renders a number of seconds as "h:mm:ss", dropping the hour
// component entirely when it is zero ("2:05" rather than "0:02:05").
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	hrs := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60

	if hrs == 0 {
		return fmt.Sprintf("%d:%02d", mins, secs)
	}
	return fmt.Sprintf("%d:%02d:%02d", hrs, mins, secs)
}

// Parse converts a display timestamp back to seconds. Components are read
// right-to-left, so "ss", "mm:ss" and "hh:mm:ss" are all accepted.
func Parse(display string) (int, error) {
	trimmed := strings.TrimSpace(display)
	if trimmed == "" {
		return 0, fmt.Errorf("timecode: empty timestamp")
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("timecode: too many components in %q", display)
	}

	total := 0
	multiplier := 1
	for i := len(parts) - 1; i >= 0; i-- {
		value, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || value < 0 {
			return 0, fmt.Errorf("timecode: invalid component %q in %q", parts[i], display)
		}
		total += value * multiplier
		multiplier *= 60
	}

	return total, nil
}

// Valid reports whether a timestamp satisfies the strict publish-time
// pattern. Parse is deliberately more tolerant; validation is not.
func Valid(display string) bool {
	return strictPattern.MatchString(strings.TrimSpace(display))
}
