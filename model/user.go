package model

import "time"

// User carries identity and the pay-rate snapshot consumed by aggregation.
// Authentication itself lives with the external identity provider; the
// engine only trusts the id handed to it.
type User struct {
	ID         uint    `gorm:"primaryKey;column:id" json:"id"`
	Email      string  `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Name       string  `gorm:"column:name;type:varchar(255)" json:"name"`
	IsAdmin    bool    `gorm:"column:is_admin;not null;default:false" json:"isAdmin"`
	NormalRate float64 `gorm:"column:normal_rate;type:decimal(10,2);not null;default:0" json:"normalRate"`
	OtRate     float64 `gorm:"column:ot_rate;type:decimal(10,2);not null;default:0" json:"otRate"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
