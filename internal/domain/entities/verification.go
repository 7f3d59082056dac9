package entities

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ReVerificationInterval is how long an approval stays valid
const ReVerificationInterval = 365 * 24 * time.Hour

// DocumentBucket is the object storage bucket for verification files
const DocumentBucket = "verification-documents"

// VerificationStatus is the state of a verification request
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Valid reports whether s is a known status
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is an allowed status change.
// pending moves to verified or rejected, and both of those can be sent back to pending.
func CanTransition(from, to VerificationStatus) bool {
	switch from {
	case VerificationPending:
		return to == VerificationVerified || to == VerificationRejected
	case VerificationVerified, VerificationRejected:
		return to == VerificationPending
	}
	return false
}

// UserType is the role a verification request is filed for
type UserType string

const (
	UserTypeTutor     UserType = "tutor"
	UserTypeInstitute UserType = "institute"
)

// Valid reports whether t is a verifiable role
func (t UserType) Valid() bool {
	return t == UserTypeTutor || t == UserTypeInstitute
}

// Role maps the user type to the matching user role
func (t UserType) Role() UserRole {
	return UserRole(t)
}

// VerificationRequest is one verification cycle for a (user, role) pair
type VerificationRequest struct {
	ID                    uuid.UUID          `json:"id"`
	UserID                uuid.UUID          `json:"userId"`
	UserType              UserType           `json:"userType"`
	Status                VerificationStatus `json:"status"`
	RejectionReason       null.String        `json:"rejectionReason"`
	VerifiedBy            null.String        `json:"verifiedBy"`
	VerifiedAt            null.Time          `json:"verifiedAt"`
	ReVerificationDueDate null.Time          `json:"reVerificationDueDate"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// VerificationDocument is an uploaded file attached to a request
type VerificationDocument struct {
	ID           uuid.UUID    `json:"id"`
	RequestID    uuid.UUID    `json:"requestId"`
	DocumentType DocumentType `json:"documentType"`
	DocumentName string       `json:"documentName"`
	DocumentURL  string       `json:"documentUrl"`
	StorageKey   string       `json:"storageKey"`
	FileSize     int64        `json:"fileSize"`
	MimeType     string       `json:"mimeType"`
	IsRequired   bool         `json:"isRequired"`
	UploadedAt   time.Time    `json:"uploadedAt"`
}

// ReferenceStatus is the admin assessment of a reference
type ReferenceStatus string

const (
	ReferencePending  ReferenceStatus = "pending"
	ReferenceVerified ReferenceStatus = "verified"
	ReferenceRejected ReferenceStatus = "rejected"
)

// Valid reports whether s is a known reference status
func (s ReferenceStatus) Valid() bool {
	switch s {
	case ReferencePending, ReferenceVerified, ReferenceRejected:
		return true
	}
	return false
}

// VerificationReference is a professional contact vouching for the applicant
type VerificationReference struct {
	ID                 uuid.UUID       `json:"id"`
	RequestID          uuid.UUID       `json:"requestId"`
	Name               string          `json:"name"`
	Title              null.String     `json:"title"`
	Organization       null.String     `json:"organization"`
	Email              string          `json:"email"`
	Phone              null.String     `json:"phone"`
	Relationship       string          `json:"relationship"`
	CanContact         bool            `json:"canContact"`
	VerificationStatus ReferenceStatus `json:"verificationStatus"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// VerificationTestAttempt records a subject competency test taken during verification
type VerificationTestAttempt struct {
	ID          uuid.UUID `json:"id"`
	RequestID   uuid.UUID `json:"requestId"`
	Subject     string    `json:"subject"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"maxScore"`
	Passed      bool      `json:"passed"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// VerificationRequestDetail is a request with its nested children
type VerificationRequestDetail struct {
	VerificationRequest
	Documents    []*VerificationDocument    `json:"documents"`
	References   []*VerificationReference   `json:"references"`
	TestAttempts []*VerificationTestAttempt `json:"testAttempts"`
}

// VerificationRequestSummary is a queue row with denormalized child counts
type VerificationRequestSummary struct {
	VerificationRequest
	UserEmail      string `json:"userEmail"`
	UserName       string `json:"userName"`
	DocumentCount  int64  `json:"documentCount"`
	ReferenceCount int64  `json:"referenceCount"`
}

// VerificationRequestFilter narrows the admin queue
type VerificationRequestFilter struct {
	Status VerificationStatus
	Limit  int
	Offset int
}

// StatusTransition is the change applied to a request row in one conditional update
type StatusTransition struct {
	From                  VerificationStatus
	To                    VerificationStatus
	RejectionReason       null.String
	VerifiedBy            null.String
	VerifiedAt            null.Time
	ReVerificationDueDate null.Time
	At                    time.Time
	// DueBefore, when set, also requires the stored due date to be at or before it
	DueBefore null.Time
}

// NewApproval builds the pending -> verified transition stamped at `at`
func NewApproval(adminID string, at time.Time) StatusTransition {
	at = at.UTC()
	return StatusTransition{
		From:                  VerificationPending,
		To:                    VerificationVerified,
		VerifiedBy:            null.StringFrom(adminID),
		VerifiedAt:            null.TimeFrom(at),
		ReVerificationDueDate: null.TimeFrom(at.Add(ReVerificationInterval)),
		At:                    at,
	}
}

// NewRejection builds the pending -> rejected transition
func NewRejection(reason string, at time.Time) StatusTransition {
	return StatusTransition{
		From:            VerificationPending,
		To:              VerificationRejected,
		RejectionReason: null.StringFrom(reason),
		At:              at.UTC(),
	}
}

// NewReset builds the from -> pending transition that clears every review field
func NewReset(from VerificationStatus, at time.Time) StatusTransition {
	return StatusTransition{
		From: from,
		To:   VerificationPending,
		At:   at.UTC(),
	}
}

// NewDueReset builds the verified -> pending transition used when the due date has passed
func NewDueReset(now time.Time) StatusTransition {
	t := NewReset(VerificationVerified, now)
	t.DueBefore = null.TimeFrom(now.UTC())
	return t
}

// Apply copies the transition onto an in-memory request
func (t StatusTransition) Apply(req *VerificationRequest) {
	req.Status = t.To
	req.RejectionReason = t.RejectionReason
	req.VerifiedBy = t.VerifiedBy
	req.VerifiedAt = t.VerifiedAt
	req.ReVerificationDueDate = t.ReVerificationDueDate
	req.UpdatedAt = t.At
}

// DocumentObjectKey builds {requestId}/{requestId}_{documentType}_{timestampMillis}.{ext}
func DocumentObjectKey(requestID uuid.UUID, docType DocumentType, at time.Time, fileName string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s_%s_%d.%s", requestID, requestID, docType, at.UnixMilli(), ext)
}

// CreateVerificationRequestInput is the body of POST /verification/requests
type CreateVerificationRequestInput struct {
	UserType UserType `json:"userType" binding:"required"`
}

// AddReferenceInput is the body of POST /verification/requests/:id/references
type AddReferenceInput struct {
	Name         string `json:"name" binding:"required,max=200"`
	Title        string `json:"title" binding:"max=200"`
	Organization string `json:"organization" binding:"max=200"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"max=50"`
	Relationship string `json:"relationship" binding:"required,max=200"`
	CanContact   bool   `json:"canContact"`
}

// AddTestAttemptInput is the body of POST /verification/requests/:id/test-attempts
type AddTestAttemptInput struct {
	Subject  string `json:"subject" binding:"required"`
	Score    int    `json:"score" binding:"gte=0"`
	MaxScore int    `json:"maxScore" binding:"required,gt=0"`
	Passed   bool   `json:"passed"`
}

// RejectInput is the body of POST /admin/verification/requests/:id/reject
type RejectInput struct {
	Reason string `json:"reason"`
}

// UpdateReferenceStatusInput is the body of PUT /admin/verification/references/:id/status
type UpdateReferenceStatusInput struct {
	Status ReferenceStatus `json:"status" binding:"required"`
}

// StatusEvent is broadcast after every committed status transition
type StatusEvent struct {
	RequestID uuid.UUID          `json:"requestId"`
	UserID    uuid.UUID          `json:"userId"`
	UserType  UserType           `json:"userType"`
	From      VerificationStatus `json:"from"`
	Status    VerificationStatus `json:"status"`
	Reason    string             `json:"reason,omitempty"`
	At        time.Time          `json:"at"`
}

// UploadFile is one file handed to the upload flow
type UploadFile struct {
	DocumentType DocumentType
	FileName     string
	ContentType  string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// UploadResult reports the outcome of one file in a batch
type UploadResult struct {
	DocumentType DocumentType          `json:"documentType"`
	FileName     string                `json:"fileName"`
	Document     *VerificationDocument `json:"document,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// BatchUploadResult carries cumulative progress of a sequential upload
type BatchUploadResult struct {
	Uploaded int             `json:"uploaded"`
	Total    int             `json:"total"`
	Results  []*UploadResult `json:"results"`
}
