package engine

import (
	"errors"
	"testing"

	"geoclock.com/geoclock/model"
	"github.com/stretchr/testify/assert"
)

type stubSessionStore struct {
	events      []model.ScanEvent
	existing    *model.WorkSession
	sites       map[uint]model.Site
	eventsErr   error
	existingErr error

	replaced *model.WorkSession
	deleted  bool
}

func (s *stubSessionStore) SuccessEvents(userID uint, dateKey string) ([]model.ScanEvent, error) {
	return s.events, s.eventsErr
}

func (s *stubSessionStore) ExistingSession(userID uint, dateKey string) (*model.WorkSession, error) {
	return s.existing, s.existingErr
}

func (s *stubSessionStore) SitesByID(ids []uint) (map[uint]model.Site, error) {
	if s.sites == nil {
		return map[uint]model.Site{}, nil
	}
	return s.sites, nil
}

func (s *stubSessionStore) DeleteSession(userID uint, dateKey string) error {
	s.deleted = true
	return nil
}

func (s *stubSessionStore) ReplaceSession(userID uint, dateKey string, session *model.WorkSession) error {
	s.replaced = session
	return nil
}

func TestRebuildSessionPreservesNotes(t *testing.T) {
	store := &stubSessionStore{
		events: []model.ScanEvent{
			successEvent(t, "a", model.ScanTypeCheckIn, "07:55"),
			successEvent(t, "b", model.ScanTypeCheckOut, "17:03"),
		},
		existing: &model.WorkSession{
			UserID:       testUser.ID,
			DateKey:      testDateKey,
			LateNote:     "bus broke down",
			AbnormalNote: "approved by supervisor",
		},
		sites: testSites(),
	}

	err := RebuildSessionWith(store, testUser, testDateKey, DefaultBufferConfig)

	assert.NoError(t, err)
	assert.NotNil(t, store.replaced)
	assert.Equal(t, "bus broke down", store.replaced.LateNote)
	assert.Equal(t, "approved by supervisor", store.replaced.AbnormalNote)
	assert.NotNil(t, store.replaced.TotalHours)
	assert.InDelta(t, 9.13, *store.replaced.TotalHours, 0.001)
}

func TestRebuildSessionExistingReadFailure(t *testing.T) {
	// A transient failure reading the prior session must abort the run:
	// proceeding would commit a replacement with its operator notes wiped.
	store := &stubSessionStore{
		events: []model.ScanEvent{
			successEvent(t, "a", model.ScanTypeCheckIn, "08:00"),
			successEvent(t, "b", model.ScanTypeCheckOut, "17:00"),
		},
		existingErr: errors.New("connection reset"),
		sites:       testSites(),
	}

	err := RebuildSessionWith(store, testUser, testDateKey, DefaultBufferConfig)

	var serr *StorageError
	assert.ErrorAs(t, err, &serr)
	assert.Nil(t, store.replaced)
	assert.False(t, store.deleted)
}

func TestRebuildSessionEventsReadFailure(t *testing.T) {
	store := &stubSessionStore{
		eventsErr: errors.New("connection reset"),
	}

	err := RebuildSessionWith(store, testUser, testDateKey, DefaultBufferConfig)

	var serr *StorageError
	assert.ErrorAs(t, err, &serr)
	assert.Nil(t, store.replaced)
	assert.False(t, store.deleted)
}

func TestRebuildSessionEmptyDay(t *testing.T) {
	t.Run("stale session removed", func(t *testing.T) {
		store := &stubSessionStore{
			existing: &model.WorkSession{UserID: testUser.ID, DateKey: testDateKey},
		}

		err := RebuildSessionWith(store, testUser, testDateKey, DefaultBufferConfig)

		assert.NoError(t, err)
		assert.True(t, store.deleted)
		assert.Nil(t, store.replaced)
	})

	t.Run("nothing to do", func(t *testing.T) {
		store := &stubSessionStore{}

		err := RebuildSessionWith(store, testUser, testDateKey, DefaultBufferConfig)

		assert.NoError(t, err)
		assert.False(t, store.deleted)
		assert.Nil(t, store.replaced)
	})
}
