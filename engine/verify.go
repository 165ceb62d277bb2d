package engine

import (
	"errors"
	"fmt"
	"time"

	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// toggleLocks serializes the read-then-append toggle decision per
// (user, site, dateKey).
var toggleLocks = NewKeyedMutex()

// ScanRequest is one scan attempt as reported by the device. Lat/Lng are
// nil when the device could not acquire a fix; LocationError then carries
// the classified cause.
type ScanRequest struct {
	User          model.User
	Token         string
	Lat           *float64
	Lng           *float64
	LocationError string
	ScanTime      time.Time
}

type ScanResult struct {
	Event *model.ScanEvent
	// AggregationDeferred is set when the post-scan rebuild failed; the
	// scan outcome itself is final once the success log commits.
	AggregationDeferred bool
}

// ScanStore is the storage surface the verifier reads and appends through.
type ScanStore interface {
	// SiteByName returns nil, nil when no site matches the token.
	SiteByName(name string) (*model.Site, error)
	// EventsForKey returns every log row for the key, deleted and failed
	// rows included; the verifier filters them itself.
	EventsForKey(userID, siteID uint, dateKey string) ([]model.ScanEvent, error)
	AppendEvent(event *model.ScanEvent) error
}

type gormScanStore struct {
	db *gorm.DB
}

func (s gormScanStore) SiteByName(name string) (*model.Site, error) {
	var site model.Site
	err := s.db.Where("name = ?", name).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (s gormScanStore) EventsForKey(userID, siteID uint, dateKey string) ([]model.ScanEvent, error) {
	var events []model.ScanEvent
	err := s.db.Where("user_id = ? AND site_id = ? AND date_key = ?",
		userID, siteID, dateKey).
		Find(&events).Error
	return events, err
}

func (s gormScanStore) AppendEvent(event *model.ScanEvent) error {
	return s.db.Create(event).Error
}

// VerifyScan validates one scan attempt against the database and, on
// success, synchronously rebuilds the session for the (user, dateKey) key.
func VerifyScan(db *gorm.DB, req ScanRequest) (*ScanResult, error) {
	result, err := VerifyScanWith(gormScanStore{db: db}, req)
	if err != nil {
		return result, err
	}

	// Aggregation failure never converts a committed scan into a failure.
	cfg := LoadBufferConfig(db)
	if err := RebuildSession(db, req.User, result.Event.DateKey, cfg); err != nil {
		fmt.Printf("[WARN] aggregation after scan %s failed: %v\n", result.Event.ID, err)
		result.AggregationDeferred = true
	}

	return result, nil
}

// VerifyScanWith validates one scan attempt and appends exactly one
// ScanEvent, success or fail. No step is retried; the first failure is
// terminal for the attempt.
func VerifyScanWith(store ScanStore, req ScanRequest) (*ScanResult, error) {
	scanTime := req.ScanTime
	if scanTime.IsZero() {
		scanTime = utils.BusinessNow()
	}
	dateKey := utils.DateKey(scanTime)

	event := model.ScanEvent{
		ID:        uuid.NewString(),
		UserID:    req.User.ID,
		ScanTime:  scanTime,
		DateKey:   dateKey,
		CreatedBy: model.CreatedByScanner,
	}

	normalized := NormalizeToken(req.Token)
	if normalized == "" {
		verr := &ValidationError{Reason: ReasonInvalidToken}
		if err := appendFailEvent(store, &event, verr.Reason); err != nil {
			return nil, err
		}
		return &ScanResult{Event: &event}, verr
	}

	site, err := store.SiteByName(normalized)
	if err != nil {
		return nil, &StorageError{Op: "lookup site", Err: err}
	}
	if site == nil {
		verr := &ValidationError{Reason: ReasonSiteNotFound}
		if err := appendFailEvent(store, &event, verr.Reason); err != nil {
			return nil, err
		}
		return &ScanResult{Event: &event}, verr
	}

	event.SiteID = &site.ID
	event.AllowedRadiusMeters = utils.Ptr(site.RadiusMeters)

	if req.Lat == nil || req.Lng == nil {
		lerr := &LocationUnavailable{Cause: req.LocationError}
		if err := appendFailEvent(store, &event, lerr.Error()); err != nil {
			return nil, err
		}
		return &ScanResult{Event: &event}, lerr
	}

	event.UserLat = req.Lat
	event.UserLng = req.Lng

	distance := HaversineDistance(*req.Lat, *req.Lng, site.Latitude, site.Longitude)
	event.DistanceMeters = &distance

	if distance > site.RadiusMeters {
		gerr := &GeofenceViolation{DistanceMeters: distance, AllowedRadiusMeters: site.RadiusMeters}
		if err := appendFailEvent(store, &event, ReasonOutsideRadius); err != nil {
			return nil, err
		}
		return &ScanResult{Event: &event}, gerr
	}

	key := fmt.Sprintf("%d/%d/%s", req.User.ID, site.ID, dateKey)
	toggleLocks.Lock(key)
	defer toggleLocks.Unlock(key)

	kind, err := DecideScanKind(store, req.User.ID, site.ID, dateKey)
	if err != nil {
		return nil, err
	}

	event.Status = model.ScanStatusSuccess
	event.ScanType = kind
	if err := store.AppendEvent(&event); err != nil {
		return nil, &StorageError{Op: "append success event", Err: err}
	}

	return &ScanResult{Event: &event}, nil
}

// DecideScanKind toggles from the most recent non-deleted successful log
// for the (user, site, dateKey): check-in if none exists or the latest was
// a check-out, otherwise check-out. Ties on scan time break by id, matching
// the aggregation sort.
func DecideScanKind(store ScanStore, userID, siteID uint, dateKey string) (string, error) {
	events, err := store.EventsForKey(userID, siteID, dateKey)
	if err != nil {
		return "", &StorageError{Op: "fetch day logs", Err: err}
	}

	var last *model.ScanEvent
	for i := range events {
		e := &events[i]
		if e.Status != model.ScanStatusSuccess || e.IsDeleted {
			continue
		}
		if last == nil || e.ScanTime.After(last.ScanTime) ||
			(e.ScanTime.Equal(last.ScanTime) && e.ID > last.ID) {
			last = e
		}
	}
	if last == nil {
		return model.ScanTypeCheckIn, nil
	}

	return ToggleScanKind(last.ScanType), nil
}

func ToggleScanKind(last string) string {
	if last == model.ScanTypeCheckIn {
		return model.ScanTypeCheckOut
	}
	return model.ScanTypeCheckIn
}

func appendFailEvent(store ScanStore, event *model.ScanEvent, reason string) error {
	event.Status = model.ScanStatusFail
	event.FailReason = utils.Ptr(reason)
	if err := store.AppendEvent(event); err != nil {
		return &StorageError{Op: "append fail event", Err: err}
	}
	return nil
}
