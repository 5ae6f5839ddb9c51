package model

// ReminderKind identifies one reminder category. The set is closed: the
// dedup ledger key space is exhaustive over these values, so a typo cannot
// silently create a new category.
type ReminderKind string

const (
	KindHabitFirst       ReminderKind = "habit_first"
	KindHabitSecond      ReminderKind = "habit_second"
	KindHabitThird       ReminderKind = "habit_third"
	KindHabitNoHistory   ReminderKind = "habit_first_no_history"
	KindMissionDeadline7 ReminderKind = "mission_deadline_7"
	KindGoalDaily        ReminderKind = "goal_daily"
)

// Kinds returns all valid reminder kinds.
func Kinds() []ReminderKind {
	return []ReminderKind{
		KindHabitFirst,
		KindHabitSecond,
		KindHabitThird,
		KindHabitNoHistory,
		KindMissionDeadline7,
		KindGoalDaily,
	}
}

// Valid reports whether k is a member of the closed kind set.
func (k ReminderKind) Valid() bool {
	switch k {
	case KindHabitFirst, KindHabitSecond, KindHabitThird,
		KindHabitNoHistory, KindMissionDeadline7, KindGoalDaily:
		return true
	}
	return false
}

// Scope is the compound dedup key for one reminder decision. Kind always
// travels with the entity reference: a habit kind with an empty HabitID and
// a user-global kind share no key space because the kind differs.
type Scope struct {
	Kind      ReminderKind
	HabitID   string // set for habit nudges
	MissionID string // set for mission deadline warnings
}

// HabitScope builds the scope for a per-habit nudge.
func HabitScope(kind ReminderKind, habitID string) Scope {
	return Scope{Kind: kind, HabitID: habitID}
}

// MissionScope builds the scope for a mission deadline warning.
func MissionScope(missionID string) Scope {
	return Scope{Kind: KindMissionDeadline7, MissionID: missionID}
}

// GlobalScope builds a user-global scope (no specific habit or mission).
func GlobalScope(kind ReminderKind) Scope {
	return Scope{Kind: kind}
}

// EntityID returns the habit or mission reference, or "-" for user-global
// scopes. The placeholder keeps ledger keys fixed-arity.
func (s Scope) EntityID() string {
	switch {
	case s.HabitID != "":
		return s.HabitID
	case s.MissionID != "":
		return s.MissionID
	}
	return "-"
}
