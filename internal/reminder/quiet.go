package reminder

import "github.com/goalsapp/reminderd/internal/errors"

// InQuietHours reports whether nowMinute falls inside the user's configured
// do-not-disturb interval. Unset bounds mean no suppression. A malformed
// bound also means no suppression (fail open: a formatting bug must never
// silence every notification) but is reported back so the caller can log
// the data-quality problem instead of healing it silently.
func InQuietHours(nowMinute int, start, end string) (bool, error) {
	if start == "" || end == "" {
		return false, nil
	}

	startMin, err := ParseClock(start)
	if err != nil {
		return false, errors.WithContext(err, "quiet hours start")
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return false, errors.WithContext(err, "quiet hours end")
	}

	return Window{Lo: startMin, Hi: endMin}.Contains(nowMinute), nil
}
