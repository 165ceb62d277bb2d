package engine

import "fmt"

// Human-readable failure reasons recorded on fail ScanEvents.
const (
	ReasonInvalidToken  = "Invalid QR code"
	ReasonSiteNotFound  = "Site not found"
	ReasonOutsideRadius = "Outside allowed radius"
)

// ValidationError covers an empty or unmatched site token. Terminal for the
// scan attempt.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// GeofenceViolation is returned when the measured distance exceeds the
// site's allowed radius.
type GeofenceViolation struct {
	DistanceMeters      float64
	AllowedRadiusMeters float64
}

func (e *GeofenceViolation) Error() string {
	return fmt.Sprintf("%s (%.0fm > %.0fm)", ReasonOutsideRadius, e.DistanceMeters, e.AllowedRadiusMeters)
}

// Location error causes reported by the scanning device.
const (
	LocationPermissionDenied    = "permission-denied"
	LocationPositionUnavailable = "position-unavailable"
	LocationTimeout             = "timeout"
)

// LocationUnavailable covers every failure to acquire device coordinates.
type LocationUnavailable struct {
	Cause string
}

func (e *LocationUnavailable) Error() string {
	switch e.Cause {
	case LocationPermissionDenied:
		return "Location permission denied"
	case LocationPositionUnavailable:
		return "Location position unavailable"
	case LocationTimeout:
		return "Location request timed out"
	}
	return "Location unavailable"
}

// StorageError wraps a log or session read/write failure. An aggregation
// run that hits one aborts without writing a partial session.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
