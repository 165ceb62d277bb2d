package engine

import (
	"testing"

	"geoclock.com/geoclock/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{"Plain", "warehouse-a", "warehouse-a"},
		{"Uppercase", "Warehouse-A", "warehouse-a"},
		{"Surrounding whitespace", "  site one  ", "site one"},
		{"Collapsed internal runs", "site \t  one", "site one"},
		{"Empty", "", ""},
		{"Whitespace only", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeToken(tt.token))
		})
	}
}

func TestToggleScanKind(t *testing.T) {
	// A day's sequence alternates: [] -> in, [in] -> out, [in,out] -> in.
	assert.Equal(t, model.ScanTypeCheckOut, ToggleScanKind(model.ScanTypeCheckIn))
	assert.Equal(t, model.ScanTypeCheckIn, ToggleScanKind(model.ScanTypeCheckOut))
	assert.Equal(t, model.ScanTypeCheckIn, ToggleScanKind(""))
}

type stubScanStore struct {
	sites    map[string]model.Site
	events   []model.ScanEvent
	fetchErr error

	appended []model.ScanEvent
}

func (s *stubScanStore) SiteByName(name string) (*model.Site, error) {
	site, ok := s.sites[name]
	if !ok {
		return nil, nil
	}
	return &site, nil
}

func (s *stubScanStore) EventsForKey(userID, siteID uint, dateKey string) ([]model.ScanEvent, error) {
	return s.events, s.fetchErr
}

func (s *stubScanStore) AppendEvent(event *model.ScanEvent) error {
	s.appended = append(s.appended, *event)
	return nil
}

func scanStoreWithSite(t *testing.T) (*stubScanStore, model.Site) {
	t.Helper()
	site := testSites()[1]
	return &stubScanStore{sites: map[string]model.Site{site.Name: site}}, site
}

func TestVerifyScanOutsideRadius(t *testing.T) {
	store, site := scanStoreWithSite(t)

	// 120 m due north of the site centre, against a 100 m radius.
	lat := site.Latitude + 120.0/111194.93
	req := ScanRequest{
		User:     testUser,
		Token:    "HQ",
		Lat:      &lat,
		Lng:      &site.Longitude,
		ScanTime: at(t, "08:00"),
	}

	result, err := VerifyScanWith(store, req)

	var gerr *GeofenceViolation
	assert.ErrorAs(t, err, &gerr)
	assert.InDelta(t, 120, gerr.DistanceMeters, 0.01)
	assert.Equal(t, site.RadiusMeters, gerr.AllowedRadiusMeters)

	assert.Len(t, store.appended, 1)
	event := store.appended[0]
	assert.Equal(t, model.ScanStatusFail, event.Status)
	assert.NotNil(t, event.FailReason)
	assert.Equal(t, ReasonOutsideRadius, *event.FailReason)
	assert.NotNil(t, event.DistanceMeters)
	assert.InDelta(t, 120, *event.DistanceMeters, 0.01)
	assert.NotNil(t, event.AllowedRadiusMeters)
	assert.Equal(t, site.RadiusMeters, *event.AllowedRadiusMeters)
	// Coordinates are retained on the fail row for audit.
	assert.Equal(t, &lat, event.UserLat)
	assert.Equal(t, &site.Longitude, event.UserLng)
	assert.Equal(t, result.Event.ID, event.ID)
}

func TestVerifyScanRejections(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		withCoords bool
		reason     string
	}{
		{"blank token", "   ", true, ReasonInvalidToken},
		{"unknown site", "warehouse-z", true, ReasonSiteNotFound},
		{"no coordinates", "HQ", false, "Location permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, site := scanStoreWithSite(t)
			req := ScanRequest{
				User:          testUser,
				Token:         tt.token,
				LocationError: LocationPermissionDenied,
				ScanTime:      at(t, "08:00"),
			}
			if tt.withCoords {
				req.Lat = &site.Latitude
				req.Lng = &site.Longitude
			}

			result, err := VerifyScanWith(store, req)

			assert.Error(t, err)
			assert.Len(t, store.appended, 1)
			event := store.appended[0]
			assert.Equal(t, model.ScanStatusFail, event.Status)
			assert.NotNil(t, event.FailReason)
			assert.Equal(t, tt.reason, *event.FailReason)
			assert.Equal(t, result.Event.ID, event.ID)
		})
	}
}

func TestVerifyScanTogglesAcrossDay(t *testing.T) {
	store, site := scanStoreWithSite(t)
	req := ScanRequest{
		User:     testUser,
		Token:    "HQ",
		Lat:      &site.Latitude,
		Lng:      &site.Longitude,
		ScanTime: at(t, "08:00"),
	}

	first, err := VerifyScanWith(store, req)
	assert.NoError(t, err)
	assert.Equal(t, model.ScanStatusSuccess, first.Event.Status)
	assert.Equal(t, model.ScanTypeCheckIn, first.Event.ScanType)
	assert.NotNil(t, first.Event.DistanceMeters)
	assert.InDelta(t, 0, *first.Event.DistanceMeters, 0.01)

	// A later attempt sees the committed check-in and toggles.
	store.events = store.appended
	req.ScanTime = at(t, "17:00")

	second, err := VerifyScanWith(store, req)
	assert.NoError(t, err)
	assert.Equal(t, model.ScanTypeCheckOut, second.Event.ScanType)
}

func TestDecideScanKind(t *testing.T) {
	deleted := func(e model.ScanEvent) model.ScanEvent {
		e.IsDeleted = true
		return e
	}
	failed := func(e model.ScanEvent) model.ScanEvent {
		e.Status = model.ScanStatusFail
		e.ScanType = ""
		return e
	}

	tests := []struct {
		name     string
		events   []model.ScanEvent
		expected string
	}{
		{
			"empty day",
			nil,
			model.ScanTypeCheckIn,
		},
		{
			"after check-in",
			[]model.ScanEvent{successEvent(t, "a", model.ScanTypeCheckIn, "08:00")},
			model.ScanTypeCheckOut,
		},
		{
			"after full pair",
			[]model.ScanEvent{
				successEvent(t, "a", model.ScanTypeCheckIn, "08:00"),
				successEvent(t, "b", model.ScanTypeCheckOut, "12:00"),
			},
			model.ScanTypeCheckIn,
		},
		{
			"deleted latest excluded",
			[]model.ScanEvent{
				successEvent(t, "a", model.ScanTypeCheckIn, "08:00"),
				deleted(successEvent(t, "b", model.ScanTypeCheckOut, "12:00")),
			},
			model.ScanTypeCheckOut,
		},
		{
			"fail rows ignored",
			[]model.ScanEvent{
				successEvent(t, "a", model.ScanTypeCheckIn, "08:00"),
				failed(successEvent(t, "b", "", "13:00")),
			},
			model.ScanTypeCheckOut,
		},
		{
			"tie on scan time breaks by id",
			[]model.ScanEvent{
				successEvent(t, "b", model.ScanTypeCheckOut, "12:00"),
				successEvent(t, "a", model.ScanTypeCheckIn, "12:00"),
			},
			model.ScanTypeCheckIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubScanStore{events: tt.events}
			kind, err := DecideScanKind(store, testUser.ID, 1, testDateKey)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestDecideScanKindFetchFailure(t *testing.T) {
	store := &stubScanStore{fetchErr: assert.AnError}

	_, err := DecideScanKind(store, testUser.ID, 1, testDateKey)

	var serr *StorageError
	assert.ErrorAs(t, err, &serr)
}

func TestScanErrorMessages(t *testing.T) {
	assert.Equal(t, "Invalid QR code", (&ValidationError{Reason: ReasonInvalidToken}).Error())
	assert.Equal(t, "Location permission denied", (&LocationUnavailable{Cause: LocationPermissionDenied}).Error())
	assert.Equal(t, "Location request timed out", (&LocationUnavailable{Cause: LocationTimeout}).Error())

	gerr := &GeofenceViolation{DistanceMeters: 120, AllowedRadiusMeters: 100}
	assert.Contains(t, gerr.Error(), "Outside allowed radius")
}
