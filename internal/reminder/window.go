// Package reminder implements the smart reminder evaluation core: time
// window calculation from learned completion history, quiet hours
// filtering, and the per-user evaluation pass that decides which
// notifications fire on a tick.
package reminder

import (
	"fmt"

	"github.com/goalsapp/reminderd/internal/config"
	"github.com/goalsapp/reminderd/internal/errors"
)

// MinutesPerDay is the modulus of all minute-of-day arithmetic.
const MinutesPerDay = 24 * 60

// Window is a half-open minute-of-day interval [Lo, Hi). When Lo > Hi the
// window wraps midnight.
type Window struct {
	Lo int
	Hi int
}

// Contains reports whether the minute of day m falls inside the window,
// honoring midnight wraparound.
func (w Window) Contains(m int) bool {
	if w.Lo <= w.Hi {
		return w.Lo <= m && m < w.Hi
	}
	return m >= w.Lo || m < w.Hi
}

// String renders the window as "HH:MM-HH:MM" for logs.
func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Lo/60, w.Lo%60, w.Hi/60, w.Hi%60)
}

// wrap normalizes a possibly negative minute offset into [0, MinutesPerDay).
func wrap(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

// Windows holds the three nudge windows derived from one habit's average
// completion time.
type Windows struct {
	First  Window
	Second Window
	Third  Window
}

// HabitWindows derives the three disjoint nudge windows for a habit whose
// average completion time is avgMinute (minute of day). Offsets come from
// configuration; with the defaults the windows are [avg-15, avg+5),
// [avg+30, avg+45) and [avg+120, avg+135).
func HabitWindows(avgMinute int, cfg config.WindowConfig) Windows {
	avg := wrap(avgMinute)
	return Windows{
		First:  Window{Lo: wrap(avg - cfg.FirstBefore), Hi: wrap(avg + cfg.FirstAfter)},
		Second: Window{Lo: wrap(avg + cfg.SecondStart), Hi: wrap(avg + cfg.SecondEnd)},
		Third:  Window{Lo: wrap(avg + cfg.ThirdStart), Hi: wrap(avg + cfg.ThirdEnd)},
	}
}

// FallbackWindow is the shared first-nudge window for habits without
// completion history, derived from the configured default average time.
// With the defaults this is [09:45, 10:05).
func FallbackWindow(cfg config.WindowConfig) Window {
	avg := cfg.DefaultAvgMinuteOfDay()
	return Window{Lo: wrap(avg - cfg.FirstBefore), Hi: wrap(avg + cfg.FirstAfter)}
}

// GoalDailyWindow is the fixed once-a-day window for the goal summary
// nudge, [10:00, 10:15) by default.
func GoalDailyWindow(cfg config.WindowConfig) Window {
	return Window{Lo: wrap(cfg.GoalDailyStart), Hi: wrap(cfg.GoalDailyEnd)}
}

// ParseClock parses an "HH:MM" string into a minute of day. Malformed input
// yields a data-quality error; callers decide whether to fail open.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, errors.BadData("clock", s, errors.ErrMalformedClock)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, errors.BadData("clock", s, errors.ErrMalformedClock)
	}
	return h*60 + m, nil
}
