package models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationRequest struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID                uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_verification_user_type"`
	UserType              string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_verification_user_type"`
	Status                string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason       *string    `gorm:"type:text"`
	VerifiedBy            *string    `gorm:"type:varchar(64)"`
	VerifiedAt            *time.Time `gorm:"type:timestamp"`
	ReVerificationDueDate *time.Time `gorm:"column:re_verification_due_date;type:timestamp;index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (VerificationRequest) TableName() string {
	return "verification_requests"
}

type VerificationDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentType string    `gorm:"type:varchar(64);not null"`
	DocumentName string    `gorm:"type:varchar(255);not null"`
	DocumentURL  string    `gorm:"type:text;not null"`
	StorageKey   string    `gorm:"type:text;not null"`
	FileSize     int64
	MimeType     string `gorm:"type:varchar(128)"`
	IsRequired   bool
	UploadedAt   time.Time
}

func (VerificationDocument) TableName() string {
	return "verification_documents"
}

type VerificationReference struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name               string    `gorm:"type:varchar(200);not null"`
	Title              *string   `gorm:"type:varchar(200)"`
	Organization       *string   `gorm:"type:varchar(200)"`
	Email              string    `gorm:"type:varchar(255);not null"`
	Phone              *string   `gorm:"type:varchar(50)"`
	Relationship       string    `gorm:"type:varchar(200)"`
	CanContact         bool
	VerificationStatus string `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (VerificationReference) TableName() string {
	return "verification_references"
}

type VerificationTestAttempt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Subject     string    `gorm:"type:varchar(100);not null"`
	Score       int
	MaxScore    int
	Passed      bool
	AttemptedAt time.Time
}

func (VerificationTestAttempt) TableName() string {
	return "verification_test_attempts"
}
