package models

import (
	"time"

	"github.com/google/uuid"
)

type TutorAvailability struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Weekday   int       `gorm:"not null"`
	StartTime string    `gorm:"type:varchar(5);not null"`
	EndTime   string    `gorm:"type:varchar(5);not null"`
	Timezone  string    `gorm:"type:varchar(64)"`
	CreatedAt time.Time
}

func (TutorAvailability) TableName() string {
	return "tutor_availability"
}
