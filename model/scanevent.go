package model

import "time"

const (
	ScanStatusSuccess = "success"
	ScanStatusFail    = "fail"

	ScanTypeCheckIn  = "check-in"
	ScanTypeCheckOut = "check-out"

	CreatedByScanner = "scanner"
	CreatedByAdmin   = "admin"
)

// ScanEvent is one scan attempt, success or fail. Identity and ScanTime are
// immutable once written; admin edits replace derived fields only and must be
// paired with a ScanAudit row.
type ScanEvent struct {
	ID       string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	UserID   uint      `gorm:"column:user_id;not null;index:idx_user_date" json:"userId"`
	SiteID   *uint     `gorm:"column:site_id" json:"siteId"`
	ScanTime time.Time `gorm:"column:scan_time;not null" json:"scanTime"`
	DateKey  string    `gorm:"column:date_key;type:varchar(10);not null;index:idx_user_date" json:"dateKey"`
	Status   string    `gorm:"column:status;type:varchar(10);not null" json:"status"`
	ScanType string    `gorm:"column:scan_type;type:varchar(10)" json:"scanType"`

	DistanceMeters      *float64 `gorm:"column:distance_meters" json:"distanceMeters"`
	AllowedRadiusMeters *float64 `gorm:"column:allowed_radius_meters" json:"allowedRadiusMeters"`
	UserLat             *float64 `gorm:"column:user_lat" json:"userLat"`
	UserLng             *float64 `gorm:"column:user_lng" json:"userLng"`
	FailReason          *string  `gorm:"column:fail_reason;type:varchar(255)" json:"failReason"`

	IsDeleted bool   `gorm:"column:is_deleted;not null;default:false" json:"isDeleted"`
	CreatedBy string `gorm:"column:created_by;type:varchar(10);not null" json:"createdBy"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (ScanEvent) TableName() string {
	return "scan_events"
}
