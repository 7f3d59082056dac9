package entities

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the role-independent public profile every user has
type Profile struct {
	UserID    uuid.UUID `json:"userId"`
	FullName  string    `json:"fullName"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TutorProfile holds tutor specific fields. Verified gates the "verified" badge.
type TutorProfile struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Headline   string    `json:"headline"`
	Subjects   []string  `json:"subjects"`
	HourlyRate float64   `json:"hourlyRate"`
	Timezone   string    `json:"timezone"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// InstitutionProfile holds institution specific fields
type InstitutionProfile struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	InstitutionName string    `json:"institutionName"`
	Website         string    `json:"website"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProfileSeed carries optional profile fields captured before registration completes
type ProfileSeed struct {
	FullName        string   `json:"fullName,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Headline        string   `json:"headline,omitempty"`
	Subjects        []string `json:"subjects,omitempty"`
	HourlyRate      float64  `json:"hourlyRate,omitempty"`
	Timezone        string   `json:"timezone,omitempty"`
	InstitutionName string   `json:"institutionName,omitempty"`
	Website         string   `json:"website,omitempty"`
}

// TutorFilter narrows public tutor listings
type TutorFilter struct {
	Verified *bool
	Subject  string
	Limit    int
	Offset   int
}

// InstitutionFilter narrows public institution listings
type InstitutionFilter struct {
	Verified *bool
	Limit    int
	Offset   int
}

// UpdateTutorProfileInput is the body of PUT /tutors/me
type UpdateTutorProfileInput struct {
	Headline   string   `json:"headline" binding:"max=200"`
	Subjects   []string `json:"subjects"`
	HourlyRate float64  `json:"hourlyRate" binding:"gte=0"`
	Timezone   string   `json:"timezone"`
}
