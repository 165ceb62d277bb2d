package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SessionStatusComplete   = "complete"
	SessionStatusIncomplete = "incomplete"
)

// WorkSession is the single derived daily record for one (userId, dateKey)
// pair. It is always the full output of the latest aggregation run over that
// key's logs; aggregation replaces it wholesale, never patches it.
type WorkSession struct {
	ID        int32  `gorm:"primaryKey;column:id" json:"id"`
	UserID    uint   `gorm:"column:user_id;not null;index:idx_session_user_date" json:"userId"`
	UserEmail string `gorm:"column:user_email;type:varchar(255)" json:"userEmail"`
	UserName  string `gorm:"column:user_name;type:varchar(255)" json:"userName"`
	DateKey   string `gorm:"column:date_key;type:varchar(10);not null;index:idx_session_user_date" json:"dateKey"`

	SiteInID    *uint   `gorm:"column:site_in_id" json:"siteInId"`
	SiteInName  *string `gorm:"column:site_in_name;type:varchar(255)" json:"siteInName"`
	SiteOutID   *uint   `gorm:"column:site_out_id" json:"siteOutId"`
	SiteOutName *string `gorm:"column:site_out_name;type:varchar(255)" json:"siteOutName"`

	CheckInTime  *time.Time `gorm:"column:check_in_time" json:"checkInTime"`
	CheckOutTime *time.Time `gorm:"column:check_out_time" json:"checkOutTime"`

	TotalHours  *float64 `gorm:"column:total_hours;type:decimal(10,2)" json:"totalHours"`
	NormalHours *float64 `gorm:"column:normal_hours;type:decimal(10,2)" json:"normalHours"`
	OtHours     *float64 `gorm:"column:ot_hours;type:decimal(10,2)" json:"otHours"`

	NormalRate float64  `gorm:"column:normal_rate;type:decimal(10,2)" json:"normalRate"`
	OtRate     float64  `gorm:"column:ot_rate;type:decimal(10,2)" json:"otRate"`
	AmountRM   *float64 `gorm:"column:amount_rm;type:decimal(10,2)" json:"amountRM"`

	Status     string  `gorm:"column:status;type:varchar(10);not null" json:"status"`
	IsLate     bool    `gorm:"column:is_late;not null" json:"isLate"`
	LateReason *string `gorm:"column:late_reason;type:varchar(255)" json:"lateReason"`

	IsAbnormal      bool           `gorm:"column:is_abnormal;not null" json:"isAbnormal"`
	AbnormalReasons datatypes.JSON `gorm:"column:abnormal_reasons" json:"abnormalReasons"`

	// Operator annotations, preserved across recomputes.
	LateNote     string `gorm:"column:late_note;type:varchar(500)" json:"lateNote"`
	AbnormalNote string `gorm:"column:abnormal_note;type:varchar(500)" json:"abnormalNote"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (WorkSession) TableName() string {
	return "work_sessions"
}
