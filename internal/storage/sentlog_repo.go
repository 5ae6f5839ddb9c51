package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/goalsapp/reminderd/internal/model"
)

// SentLogRepo is the dedup ledger: an append-only record of which
// (user, scope, kind) tuples were notified on which calendar day. It is
// check-then-write, not test-and-set: a benign race between concurrent
// evaluators of the same tick may duplicate a send, but the ledger must
// never suppress a legitimate one.
type SentLogRepo struct {
	db *DB
}

// NewSentLogRepo creates a new sent-log repository.
func NewSentLogRepo(db *DB) *SentLogRepo {
	return &SentLogRepo{db: db}
}

// WasSentToday reports whether a reminder with this scope was already logged
// for the user on the given day.
func (r *SentLogRepo) WasSentToday(userID int64, scope model.Scope, day string) (bool, error) {
	return r.db.Exists(model.GenerateSentKey(userID, day, scope))
}

// LogSent appends a ledger entry for a confirmed delivery. Callers must only
// invoke this after the notification channel acknowledged the send.
func (r *SentLogRepo) LogSent(userID int64, scope model.Scope, at time.Time) error {
	day := at.Format(model.DateLayout)
	record := &model.SentRecord{
		Key:       model.GenerateSentKey(userID, day, scope),
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      scope.Kind,
		HabitID:   scope.HabitID,
		MissionID: scope.MissionID,
		Day:       day,
		SentAt:    at,
	}
	return r.db.Set(record)
}

// ListByUserDay retrieves all ledger entries for a user on a day.
func (r *SentLogRepo) ListByUserDay(userID int64, day string) ([]*model.SentRecord, error) {
	all, err := GetAllByPrefix(r.db, model.PrefixSent+":", func() *model.SentRecord {
		return &model.SentRecord{}
	})
	if err != nil {
		return nil, err
	}

	var records []*model.SentRecord
	for _, rec := range all {
		if rec.UserID == userID && rec.Day == day {
			records = append(records, rec)
		}
	}
	return records, nil
}
