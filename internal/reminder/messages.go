package reminder

import (
	"fmt"
	"strings"
)

// DisableHint is appended once per user lifetime, to the very first reminder
// they ever receive.
const DisableHint = "\n\nTo turn reminders off: open the app, go to Settings (gear icon) and disable Notifications."

// habitFirstMessage picks the first-nudge text by habit title keywords.
// This is cosmetic template selection, not decision logic.
func habitFirstMessage(title string, addDisableHint bool) string {
	lower := strings.ToLower(title)

	var msg string
	switch {
	case strings.Contains(lower, "water") || strings.Contains(lower, "drink") || strings.Contains(lower, "hydrate"):
		msg = "Around this time you usually drink water. How about a glass right now? 💧"
	case strings.Contains(lower, "exercise") || strings.Contains(lower, "workout") || strings.Contains(lower, "sport") || strings.Contains(lower, "stretch"):
		msg = fmt.Sprintf("This is usually your time for \"%s\". Even a few minutes count! 💪", title)
	case strings.Contains(lower, "read") || strings.Contains(lower, "book"):
		msg = fmt.Sprintf("Time for \"%s\". A few pages as a gift to yourself 📚", title)
	default:
		msg = fmt.Sprintf("Around this time you usually do \"%s\". Ready to check it off? ✨", title)
	}

	if addDisableHint {
		msg += DisableHint
	}
	return msg
}

// habitSecondMessage is the generic still-not-done nudge.
func habitSecondMessage(title string) string {
	return fmt.Sprintf("You haven't checked off \"%s\" today yet. I'll remind you again later if needed.", title)
}

// habitThirdMessage suggests rescheduling to the evening.
func habitThirdMessage(title string) string {
	return fmt.Sprintf("Reminder: \"%s\". You can move it to the evening — open the app and check it off when done.", title)
}

// noHistoryMessage is the single batched nudge for habits without
// completion history, naming the count.
func noHistoryMessage(count int, addDisableHint bool) string {
	msg := fmt.Sprintf("You have habits scheduled for today (%d). Don't forget to check them off in the app! ✨", count)
	if addDisableHint {
		msg += DisableHint
	}
	return msg
}

// missionDeadlineMessage is the 7-day deadline warning.
func missionDeadlineMessage(title string) string {
	return fmt.Sprintf("One week to the mission deadline: 7 days left to finish \"%s\" 📅", title)
}

// goalDailyMessage is the once-a-day incomplete goals summary.
func goalDailyMessage(count int) string {
	return fmt.Sprintf("You have %d unfinished goals today. Take a look at the app! 🎯", count)
}
