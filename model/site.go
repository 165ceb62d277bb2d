package model

import "time"

// Site is a geofence definition. Name is the normalized lookup key matched
// against scanned tokens. Owned by administration; read-only to the verifier.
type Site struct {
	ID           uint    `gorm:"primaryKey;column:id" json:"id"`
	Name         string  `gorm:"column:name;type:varchar(255);not null;uniqueIndex" json:"name"`
	DisplayName  string  `gorm:"column:display_name;type:varchar(255)" json:"displayName"`
	Latitude     float64 `gorm:"column:latitude;type:decimal(10,7);not null" json:"latitude"`
	Longitude    float64 `gorm:"column:longitude;type:decimal(10,7);not null" json:"longitude"`
	RadiusMeters float64 `gorm:"column:radius_meters;type:decimal(10,2);not null" json:"radiusMeters"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Site) TableName() string {
	return "sites"
}
