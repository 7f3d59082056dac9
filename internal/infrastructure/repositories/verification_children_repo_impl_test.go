package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
)

func TestVerificationDocumentRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	createVerificationTables(t, db)
	repo := NewVerificationDocumentRepository(db)
	ctx := context.Background()

	requestID := uuid.New()
	at := time.Now().UTC()
	doc := &entities.VerificationDocument{
		ID:           uuid.New(),
		RequestID:    requestID,
		DocumentType: entities.DocGovernmentID,
		DocumentName: "passport.pdf",
		DocumentURL:  "http://files/x.pdf",
		StorageKey:   "x.pdf",
		FileSize:     1024,
		MimeType:     "application/pdf",
		IsRequired:   true,
		UploadedAt:   at,
	}
	require.NoError(t, repo.Create(ctx, doc))

	items, err := repo.ListByRequest(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, entities.DocGovernmentID, items[0].DocumentType)
	require.Equal(t, int64(1024), items[0].FileSize)
	require.True(t, items[0].IsRequired)

	items, err = repo.ListByRequest(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestVerificationReferenceRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	createVerificationTables(t, db)
	repo := NewVerificationReferenceRepository(db)
	ctx := context.Background()

	requestID := uuid.New()
	ref := &entities.VerificationReference{
		ID:                 uuid.New(),
		RequestID:          requestID,
		Name:               "Dr. Grace",
		Title:              null.StringFrom("Head of Maths"),
		Email:              "grace@school.io",
		Relationship:       "Former supervisor",
		CanContact:         true,
		VerificationStatus: entities.ReferencePending,
	}
	require.NoError(t, repo.Create(ctx, ref))

	got, err := repo.GetByID(ctx, ref.ID)
	require.NoError(t, err)
	require.Equal(t, "Head of Maths", got.Title.String)
	require.False(t, got.Phone.Valid)

	require.NoError(t, repo.UpdateStatus(ctx, ref.ID, entities.ReferenceVerified))
	list, err := repo.ListByRequest(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, entities.ReferenceVerified, list[0].VerificationStatus)

	require.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), entities.ReferenceRejected), domainerrors.ErrNotFound)
	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVerificationTestAttemptRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	createVerificationTables(t, db)
	repo := NewVerificationTestAttemptRepository(db)
	ctx := context.Background()

	requestID := uuid.New()
	require.NoError(t, repo.Create(ctx, &entities.VerificationTestAttempt{
		ID: uuid.New(), RequestID: requestID, Subject: "algebra", Score: 42, MaxScore: 50, Passed: true, AttemptedAt: time.Now().UTC(),
	}))

	items, err := repo.ListByRequest(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 42, items[0].Score)
	require.True(t, items[0].Passed)
}
