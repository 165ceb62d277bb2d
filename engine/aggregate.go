package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/utils"
	"gorm.io/gorm"
)

// SessionStore is the storage surface one aggregation run reads and writes.
type SessionStore interface {
	// SuccessEvents returns the non-deleted success logs for the key.
	SuccessEvents(userID uint, dateKey string) ([]model.ScanEvent, error)
	// ExistingSession returns nil, nil when the key has no session yet.
	ExistingSession(userID uint, dateKey string) (*model.WorkSession, error)
	SitesByID(ids []uint) (map[uint]model.Site, error)
	DeleteSession(userID uint, dateKey string) error
	// ReplaceSession removes every session row for the key and inserts the
	// new one atomically.
	ReplaceSession(userID uint, dateKey string, session *model.WorkSession) error
}

type gormSessionStore struct {
	db *gorm.DB
}

func (s gormSessionStore) SuccessEvents(userID uint, dateKey string) ([]model.ScanEvent, error) {
	var events []model.ScanEvent
	err := s.db.Where("user_id = ? AND date_key = ? AND status = ? AND is_deleted = ?",
		userID, dateKey, model.ScanStatusSuccess, false).
		Find(&events).Error
	return events, err
}

func (s gormSessionStore) ExistingSession(userID uint, dateKey string) (*model.WorkSession, error) {
	var session model.WorkSession
	err := s.db.Where("user_id = ? AND date_key = ?", userID, dateKey).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s gormSessionStore) SitesByID(ids []uint) (map[uint]model.Site, error) {
	sites := make(map[uint]model.Site)
	if len(ids) == 0 {
		return sites, nil
	}
	var rows []model.Site
	if err := s.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, site := range rows {
		sites[site.ID] = site
	}
	return sites, nil
}

func (s gormSessionStore) DeleteSession(userID uint, dateKey string) error {
	return s.db.Where("user_id = ? AND date_key = ?", userID, dateKey).
		Delete(&model.WorkSession{}).Error
}

func (s gormSessionStore) ReplaceSession(userID uint, dateKey string, session *model.WorkSession) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND date_key = ?", userID, dateKey).
			Delete(&model.WorkSession{}).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}

// RebuildSession recomputes the one authoritative session for
// (user, dateKey) from the current set of non-deleted success logs.
func RebuildSession(db *gorm.DB, user model.User, dateKey string, cfg BufferConfig) error {
	return RebuildSessionWith(gormSessionStore{db: db}, user, dateKey, cfg)
}

// RebuildSessionWith replaces any existing session rows for the key with a
// freshly computed one. Operator notes on the existing session survive the
// replacement. Any storage failure aborts the run before the replacement
// commits.
func RebuildSessionWith(store SessionStore, user model.User, dateKey string, cfg BufferConfig) error {
	events, err := store.SuccessEvents(user.ID, dateKey)
	if err != nil {
		return &StorageError{Op: "fetch scan events", Err: err}
	}

	existing, err := store.ExistingSession(user.ID, dateKey)
	if err != nil {
		return &StorageError{Op: "fetch existing session", Err: err}
	}

	// No evidence left for the day: drop any stale session rather than
	// fabricate a workday from nothing.
	if len(events) == 0 {
		if existing == nil {
			return nil
		}
		if err := store.DeleteSession(user.ID, dateKey); err != nil {
			return &StorageError{Op: "delete stale session", Err: err}
		}
		return nil
	}

	sites, err := store.SitesByID(siteIDs(events))
	if err != nil {
		return &StorageError{Op: "fetch sites", Err: err}
	}

	session := ComputeSession(user, dateKey, events, cfg, sites)
	if existing != nil {
		session.LateNote = existing.LateNote
		session.AbnormalNote = existing.AbnormalNote
	}

	if err := store.ReplaceSession(user.ID, dateKey, &session); err != nil {
		return &StorageError{Op: "replace session", Err: err}
	}
	return nil
}

func siteIDs(events []model.ScanEvent) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, e := range events {
		if e.SiteID != nil && !seen[*e.SiteID] {
			seen[*e.SiteID] = true
			ids = append(ids, *e.SiteID)
		}
	}
	return ids
}

type RebuildOptions struct {
	StartDate time.Time
	EndDate   time.Time
	UserIDs   []uint
}

// RebuildReport lists the (userId, dateKey) keys rebuilt before the run
// finished or stopped on its first failure.
type RebuildReport struct {
	Rebuilt []string
	Failed  string
}

// RebuildRange re-groups every affected (user, dateKey) key inside the date
// range and replaces each key's session in turn. The buffer config is
// snapshotted once at the start of the run. The run stops at the first
// storage failure; earlier keys stay rebuilt.
func RebuildRange(db *gorm.DB, opts RebuildOptions) (*RebuildReport, error) {
	cfg := LoadBufferConfig(db)
	report := &RebuildReport{}

	for d := opts.StartDate; !d.After(opts.EndDate); d = d.AddDate(0, 0, 1) {
		dateKey := utils.DateKey(d)

		userIDs, err := affectedUsers(db, dateKey, opts.UserIDs)
		if err != nil {
			report.Failed = dateKey
			return report, &StorageError{Op: "group logs for " + dateKey, Err: err}
		}

		for _, userID := range userIDs {
			key := fmt.Sprintf("%d/%s", userID, dateKey)

			var user model.User
			if err := db.First(&user, userID).Error; err != nil {
				report.Failed = key
				return report, &StorageError{Op: "fetch user " + key, Err: err}
			}

			if err := RebuildSession(db, user, dateKey, cfg); err != nil {
				report.Failed = key
				return report, err
			}
			report.Rebuilt = append(report.Rebuilt, key)
		}
	}

	return report, nil
}

// affectedUsers groups the date's logs per user, deleted ones included, so
// a key whose last event was just soft-deleted is still rebuilt (to an
// empty, removed session).
func affectedUsers(db *gorm.DB, dateKey string, filter []uint) ([]uint, error) {
	query := db.Where("date_key = ?", dateKey)
	if len(filter) > 0 {
		query = query.Where("user_id IN ?", filter)
	}

	var events []model.ScanEvent
	if err := query.Select("user_id").Find(&events).Error; err != nil {
		return nil, err
	}

	groups := utils.GroupBy(events, func(e model.ScanEvent) uint { return e.UserID })
	ids := make([]uint, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
