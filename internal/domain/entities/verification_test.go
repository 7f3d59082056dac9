package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]VerificationStatus]bool{
		{VerificationPending, VerificationVerified}: true,
		{VerificationPending, VerificationRejected}: true,
		{VerificationVerified, VerificationPending}: true,
		{VerificationRejected, VerificationPending}: true,
	}
	all := []VerificationStatus{VerificationPending, VerificationVerified, VerificationRejected}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]VerificationStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition("unknown", VerificationPending))
}

func TestNewApproval_DueDateExactlyOneYear(t *testing.T) {
	at := time.Date(2024, 2, 29, 10, 30, 0, 0, time.FixedZone("X", 3600))
	tr := NewApproval("admin1", at)

	assert.Equal(t, VerificationVerified, tr.To)
	assert.Equal(t, "admin1", tr.VerifiedBy.String)
	assert.Equal(t, time.UTC, tr.VerifiedAt.Time.Location())
	assert.Equal(t, 365*24*time.Hour, tr.ReVerificationDueDate.Time.Sub(tr.VerifiedAt.Time))
	assert.False(t, tr.RejectionReason.Valid)
}

func TestStatusTransition_Apply(t *testing.T) {
	req := &VerificationRequest{Status: VerificationPending}
	now := time.Now()

	NewRejection("blurry scan", now).Apply(req)
	assert.Equal(t, VerificationRejected, req.Status)
	assert.Equal(t, "blurry scan", req.RejectionReason.String)

	NewReset(VerificationRejected, now).Apply(req)
	assert.Equal(t, VerificationPending, req.Status)
	assert.False(t, req.RejectionReason.Valid)
	assert.False(t, req.VerifiedAt.Valid)
	assert.False(t, req.ReVerificationDueDate.Valid)
}

func TestDocumentObjectKey(t *testing.T) {
	id := uuid.MustParse("0190a6b2-7d3e-7c00-8000-000000000001")
	at := time.UnixMilli(1700000000123)

	key := DocumentObjectKey(id, DocGovernmentID, at, "Passport.PDF")
	assert.Equal(t, id.String()+"/"+id.String()+"_government_id_1700000000123.pdf", key)

	key = DocumentObjectKey(id, DocTaxDocument, at, "noext")
	assert.Equal(t, id.String()+"/"+id.String()+"_tax_document_1700000000123.bin", key)
}

func TestUserTypeAndStatusValidity(t *testing.T) {
	assert.True(t, UserTypeTutor.Valid())
	assert.True(t, UserTypeInstitute.Valid())
	assert.False(t, UserType("student").Valid())
	assert.Equal(t, UserRoleInstitute, UserTypeInstitute.Role())

	assert.True(t, VerificationRejected.Valid())
	assert.False(t, VerificationStatus("approved").Valid())
	assert.True(t, ReferenceVerified.Valid())
	assert.False(t, ReferenceStatus("").Valid())

	assert.True(t, UserRoleTutor.SelfAssignable())
	assert.False(t, UserRoleAdmin.SelfAssignable())
}

func TestNewDueReset(t *testing.T) {
	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.FixedZone("x", 3600))
	tr := NewDueReset(now)
	assert.Equal(t, VerificationVerified, tr.From)
	assert.Equal(t, VerificationPending, tr.To)
	assert.True(t, tr.DueBefore.Valid)
	assert.Equal(t, time.UTC, tr.DueBefore.Time.Location())
	assert.True(t, tr.DueBefore.Time.Equal(now))
	assert.False(t, NewReset(VerificationVerified, now).DueBefore.Valid)
}
