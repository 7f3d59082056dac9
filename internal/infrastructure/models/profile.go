package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"type:varchar(200)"`
	Bio       string    `gorm:"type:text"`
	AvatarURL string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Profile) TableName() string {
	return "profiles"
}

// TutorProfile stores subjects as a comma separated lower-case list
type TutorProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Headline   string    `gorm:"type:varchar(200)"`
	Subjects   string    `gorm:"type:text"`
	HourlyRate float64   `gorm:"type:numeric(10,2)"`
	Timezone   string    `gorm:"type:varchar(64)"`
	Verified   bool      `gorm:"not null;default:false;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (TutorProfile) TableName() string {
	return "tutor_profiles"
}

type InstitutionProfile struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	InstitutionName string    `gorm:"type:varchar(200)"`
	Website         string    `gorm:"type:text"`
	Verified        bool      `gorm:"not null;default:false;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (InstitutionProfile) TableName() string {
	return "institution_profiles"
}
