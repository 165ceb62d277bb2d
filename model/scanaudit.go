package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionSoftDelete = "soft-delete"
	AuditActionHardDelete = "hard-delete"
)

// ScanAudit records one administrator mutation of a ScanEvent with
// before/after snapshots. Every admin edit, soft delete and hard delete
// must write exactly one of these.
type ScanAudit struct {
	ID      int32          `gorm:"primaryKey;column:id" json:"id"`
	EventID string         `gorm:"column:event_id;type:varchar(36);not null;index" json:"eventId"`
	ActorID uint           `gorm:"column:actor_id;not null" json:"actorId"`
	Action  string         `gorm:"column:action;type:varchar(20);not null" json:"action"`
	Before  datatypes.JSON `gorm:"column:before" json:"before"`
	After   datatypes.JSON `gorm:"column:after" json:"after"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (ScanAudit) TableName() string {
	return "scan_audits"
}
