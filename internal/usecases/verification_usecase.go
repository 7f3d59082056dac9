package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/domain/repositories"
	"tutorlink.backend/internal/infrastructure/metrics"
	"tutorlink.backend/pkg/logger"
	"tutorlink.backend/pkg/utils"
)

// DefaultUploadMaxBytes caps a single verification document
const DefaultUploadMaxBytes int64 = 10 << 20

// SystemActor is recorded as the actor of automatic transitions
const SystemActor = "system"

// VerificationUsecase drives the verification request lifecycle
type VerificationUsecase struct {
	uow        repositories.UnitOfWork
	userRepo   repositories.UserRepository
	profiles   repositories.ProfileRepository
	requests   repositories.VerificationRequestRepository
	documents  repositories.VerificationDocumentRepository
	references repositories.VerificationReferenceRepository
	attempts   repositories.VerificationTestAttemptRepository
	store      repositories.DocumentStore
	publisher  repositories.StatusPublisher
	metrics    *metrics.Metrics

	maxUploadBytes int64
	now            func() time.Time
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	uow repositories.UnitOfWork,
	userRepo repositories.UserRepository,
	profiles repositories.ProfileRepository,
	requests repositories.VerificationRequestRepository,
	documents repositories.VerificationDocumentRepository,
	references repositories.VerificationReferenceRepository,
	attempts repositories.VerificationTestAttemptRepository,
	store repositories.DocumentStore,
	publisher repositories.StatusPublisher,
	m *metrics.Metrics,
) *VerificationUsecase {
	return &VerificationUsecase{
		uow:            uow,
		userRepo:       userRepo,
		profiles:       profiles,
		requests:       requests,
		documents:      documents,
		references:     references,
		attempts:       attempts,
		store:          store,
		publisher:      publisher,
		metrics:        m,
		maxUploadBytes: DefaultUploadMaxBytes,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SetUploadLimit overrides the per-file size cap
func (u *VerificationUsecase) SetUploadLimit(maxBytes int64) {
	if maxBytes > 0 {
		u.maxUploadBytes = maxBytes
	}
}

// UploadLimit is the per-file size cap in bytes
func (u *VerificationUsecase) UploadLimit() int64 {
	return u.maxUploadBytes
}

// CreateRequest opens a pending request for the caller's role, or returns the existing one.
// A rejected request is reopened so the caller can resubmit.
func (u *VerificationUsecase) CreateRequest(ctx context.Context, userID uuid.UUID, input *entities.CreateVerificationRequestInput) (*entities.VerificationRequest, error) {
	if !input.UserType.Valid() {
		return nil, domainerrors.NewError("userType must be tutor or institute", domainerrors.ErrInvalidInput)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != input.UserType.Role() {
		return nil, domainerrors.NewError("userType does not match your role", domainerrors.ErrForbidden)
	}

	existing, err := u.requests.GetByUserAndType(ctx, userID, input.UserType)
	if err == nil {
		return u.reopen(ctx, existing)
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	now := u.now()
	req := &entities.VerificationRequest{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		UserType:  input.UserType,
		Status:    entities.VerificationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.requests.Create(ctx, req); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			// a concurrent create won the unique (user, type) slot
			existing, err := u.requests.GetByUserAndType(ctx, userID, input.UserType)
			if err != nil {
				return nil, err
			}
			return u.reopen(ctx, existing)
		}
		logger.Error(ctx, "Failed to create verification request", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	return req, nil
}

// ownedSubmittable loads a request and checks that userID owns it and it is pending or rejected
func (u *VerificationUsecase) ownedSubmittable(ctx context.Context, userID, requestID uuid.UUID) (*entities.VerificationRequest, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, domainerrors.ErrForbidden
	}
	if req.Status != entities.VerificationPending && req.Status != entities.VerificationRejected {
		return nil, domainerrors.NewError("request is not accepting submissions", domainerrors.ErrInvalidTransition)
	}
	return req, nil
}

// reopen moves a rejected request back to pending on resubmission. Pending requests pass through.
func (u *VerificationUsecase) reopen(ctx context.Context, req *entities.VerificationRequest) (*entities.VerificationRequest, error) {
	if req.Status != entities.VerificationRejected {
		return req, nil
	}
	updated, err := u.transition(ctx, req.ID, entities.NewReset(entities.VerificationRejected, u.now()))
	if err == nil {
		logger.Info(ctx, "Rejected request reopened by resubmission",
			zap.String("request_id", req.ID.String()),
			zap.String("actor", req.UserID.String()),
		)
		return updated, nil
	}
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		return nil, err
	}
	// another submission may have reopened it first
	current, gerr := u.requests.GetByID(ctx, req.ID)
	if gerr != nil {
		return nil, gerr
	}
	if current.Status != entities.VerificationPending {
		return nil, err
	}
	return current, nil
}

// ownedPending is ownedSubmittable followed by reopen
func (u *VerificationUsecase) ownedPending(ctx context.Context, userID, requestID uuid.UUID) (*entities.VerificationRequest, error) {
	req, err := u.ownedSubmittable(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	return u.reopen(ctx, req)
}

func (u *VerificationUsecase) validateUpload(req *entities.VerificationRequest, file *entities.UploadFile) (entities.DocumentSlot, error) {
	slot, ok := entities.FindSlot(req.UserType, file.DocumentType)
	if !ok {
		return slot, domainerrors.NewError(fmt.Sprintf("unknown document type %q for %s", file.DocumentType, req.UserType), domainerrors.ErrInvalidInput)
	}
	if file.Open == nil || file.Size <= 0 {
		return slot, domainerrors.NewError("file is empty", domainerrors.ErrInvalidInput)
	}
	if file.Size > u.maxUploadBytes {
		return slot, domainerrors.NewError(fmt.Sprintf("file exceeds %d bytes", u.maxUploadBytes), domainerrors.ErrPayloadTooLarge)
	}
	return slot, nil
}

// UploadDocument stores the file, then records its metadata
func (u *VerificationUsecase) UploadDocument(ctx context.Context, userID, requestID uuid.UUID, file *entities.UploadFile) (*entities.VerificationDocument, error) {
	req, err := u.ownedSubmittable(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := u.validateUpload(req, file); err != nil {
		u.metrics.IncDocumentUpload(string(req.UserType), "rejected")
		return nil, err
	}
	if req, err = u.reopen(ctx, req); err != nil {
		return nil, err
	}
	return u.upload(ctx, req, file)
}

func (u *VerificationUsecase) upload(ctx context.Context, req *entities.VerificationRequest, file *entities.UploadFile) (*entities.VerificationDocument, error) {
	slot, err := u.validateUpload(req, file)
	if err != nil {
		u.metrics.IncDocumentUpload(string(req.UserType), "rejected")
		return nil, err
	}

	body, err := file.Open()
	if err != nil {
		return nil, domainerrors.NewError("cannot read file", domainerrors.ErrInvalidInput)
	}
	defer body.Close()

	now := u.now()
	key := entities.DocumentObjectKey(req.ID, file.DocumentType, now, file.FileName)
	url, err := u.store.Put(ctx, key, body, file.Size, file.ContentType)
	if err != nil {
		u.metrics.IncDocumentUpload(string(req.UserType), "storage_error")
		logger.Error(ctx, "Failed to store verification document",
			zap.String("request_id", req.ID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, domainerrors.NewError("failed to store document", domainerrors.ErrStorageFailure)
	}

	doc := &entities.VerificationDocument{
		ID:           utils.GenerateUUIDv7(),
		RequestID:    req.ID,
		DocumentType: file.DocumentType,
		DocumentName: file.FileName,
		DocumentURL:  url,
		StorageKey:   key,
		FileSize:     file.Size,
		MimeType:     file.ContentType,
		IsRequired:   slot.Required,
		UploadedAt:   now,
	}
	if err := u.documents.Create(ctx, doc); err != nil {
		u.metrics.IncDocumentUpload(string(req.UserType), "metadata_error")
		// the stored object is left behind; there is no compensating delete
		logger.Error(ctx, "Failed to record verification document, object orphaned",
			zap.String("request_id", req.ID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	u.metrics.IncDocumentUpload(string(req.UserType), "ok")
	return doc, nil
}

// UploadBatch uploads files one by one. It refuses to start unless every required
// slot is covered by this batch or an earlier upload. A failed file does not stop the rest.
func (u *VerificationUsecase) UploadBatch(ctx context.Context, userID, requestID uuid.UUID, files []*entities.UploadFile) (*entities.BatchUploadResult, error) {
	if len(files) == 0 {
		return nil, domainerrors.NewError("no files provided", domainerrors.ErrInvalidInput)
	}
	req, err := u.ownedSubmittable(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}

	existing, err := u.documents.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	provided := make(map[entities.DocumentType]bool, len(existing)+len(files))
	for _, d := range existing {
		provided[d.DocumentType] = true
	}
	for _, f := range files {
		provided[f.DocumentType] = true
	}
	if missing := entities.MissingRequiredSlots(req.UserType, provided); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = string(m)
		}
		return nil, domainerrors.NewError("missing required documents: "+strings.Join(names, ", "), domainerrors.ErrMissingRequiredDocuments)
	}
	if req, err = u.reopen(ctx, req); err != nil {
		return nil, err
	}

	result := &entities.BatchUploadResult{Total: len(files), Results: make([]*entities.UploadResult, 0, len(files))}
	for _, f := range files {
		item := &entities.UploadResult{DocumentType: f.DocumentType, FileName: f.FileName}
		doc, err := u.upload(ctx, req, f)
		if err != nil {
			item.Error = publicMessage(err)
		} else {
			item.Document = doc
			result.Uploaded++
		}
		result.Results = append(result.Results, item)
	}
	return result, nil
}

// publicMessage hides infrastructure detail from per-file results
func publicMessage(err error) string {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "upload failed"
}

// AddReference attaches a professional reference to a pending or rejected request
func (u *VerificationUsecase) AddReference(ctx context.Context, userID, requestID uuid.UUID, input *entities.AddReferenceInput) (*entities.VerificationReference, error) {
	name, email, relationship := strings.TrimSpace(input.Name), strings.TrimSpace(input.Email), strings.TrimSpace(input.Relationship)
	if name == "" || email == "" || relationship == "" {
		return nil, domainerrors.NewError("name, email and relationship are required", domainerrors.ErrInvalidInput)
	}

	req, err := u.ownedPending(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	ref := &entities.VerificationReference{
		ID:                 utils.GenerateUUIDv7(),
		RequestID:          req.ID,
		Name:               name,
		Title:              optional(input.Title),
		Organization:       optional(input.Organization),
		Email:              strings.ToLower(email),
		Phone:              optional(input.Phone),
		Relationship:       relationship,
		CanContact:         input.CanContact,
		VerificationStatus: entities.ReferencePending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := u.references.Create(ctx, ref); err != nil {
		logger.Error(ctx, "Failed to add verification reference", zap.String("request_id", req.ID.String()), zap.Error(err))
		return nil, err
	}
	return ref, nil
}

func optional(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}

// AddTestAttempt records a competency test result on a pending or rejected request
func (u *VerificationUsecase) AddTestAttempt(ctx context.Context, userID, requestID uuid.UUID, input *entities.AddTestAttemptInput) (*entities.VerificationTestAttempt, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" || input.MaxScore <= 0 || input.Score < 0 || input.Score > input.MaxScore {
		return nil, domainerrors.NewError("subject and a score between 0 and maxScore are required", domainerrors.ErrInvalidInput)
	}

	req, err := u.ownedPending(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}

	attempt := &entities.VerificationTestAttempt{
		ID:          utils.GenerateUUIDv7(),
		RequestID:   req.ID,
		Subject:     subject,
		Score:       input.Score,
		MaxScore:    input.MaxScore,
		Passed:      input.Passed,
		AttemptedAt: u.now(),
	}
	if err := u.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// GetRequest loads a request with its documents, references and test attempts
func (u *VerificationUsecase) GetRequest(ctx context.Context, requestID uuid.UUID) (*entities.VerificationRequestDetail, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	detail := &entities.VerificationRequestDetail{VerificationRequest: *req}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := u.documents.ListByRequest(gctx, requestID)
		detail.Documents = docs
		return err
	})
	g.Go(func() error {
		refs, err := u.references.ListByRequest(gctx, requestID)
		detail.References = refs
		return err
	})
	g.Go(func() error {
		attempts, err := u.attempts.ListByRequest(gctx, requestID)
		detail.TestAttempts = attempts
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Failed to load verification request detail", zap.String("request_id", requestID.String()), zap.Error(err))
		return nil, err
	}
	return detail, nil
}

// GetOwnRequest is GetRequest restricted to the owner
func (u *VerificationUsecase) GetOwnRequest(ctx context.Context, userID, requestID uuid.UUID) (*entities.VerificationRequestDetail, error) {
	detail, err := u.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if detail.UserID != userID {
		return nil, domainerrors.ErrForbidden
	}
	return detail, nil
}

// GetUserRequest returns the newest request of the user, or nil when there is none
func (u *VerificationUsecase) GetUserRequest(ctx context.Context, userID uuid.UUID) (*entities.VerificationRequest, error) {
	req, err := u.requests.GetLatestByUser(ctx, userID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// GetStatusView renders the applicant's status page for a role. An empty
// userType falls back to the user's own role.
func (u *VerificationUsecase) GetStatusView(ctx context.Context, userID uuid.UUID, userType entities.UserType) (*entities.StatusView, error) {
	if userType == "" {
		user, err := u.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		userType = entities.UserType(user.Role)
	}
	if !userType.Valid() {
		return nil, domainerrors.NewError("role must be tutor or institute", domainerrors.ErrInvalidInput)
	}

	req, err := u.requests.GetByUserAndType(ctx, userID, userType)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	var docs []*entities.VerificationDocument
	var status entities.VerificationStatus
	if req != nil {
		status = req.Status
		if docs, err = u.documents.ListByRequest(ctx, req.ID); err != nil {
			return nil, err
		}
	}

	return &entities.StatusView{
		UserType:  userType,
		Request:   req,
		Checklist: entities.BuildChecklist(userType, req, docs),
		Guidance:  entities.GuidanceFor(userType, status),
		Actions:   entities.UserActionsFor(req),
	}, nil
}

// UpdateStatus moves a pending request to verified or rejected. Approval and the
// profile flag flip commit together.
func (u *VerificationUsecase) UpdateStatus(ctx context.Context, requestID uuid.UUID, status entities.VerificationStatus, reason, adminID string) (*entities.VerificationRequest, error) {
	var t entities.StatusTransition
	switch status {
	case entities.VerificationVerified:
		t = entities.NewApproval(adminID, u.now())
	case entities.VerificationRejected:
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return nil, domainerrors.ErrRejectionReasonRequired
		}
		t = entities.NewRejection(reason, u.now())
	case entities.VerificationPending:
		return nil, domainerrors.NewError("use re-verification to reopen a request", domainerrors.ErrInvalidTransition)
	default:
		return nil, domainerrors.NewError(fmt.Sprintf("unknown status %q", status), domainerrors.ErrInvalidInput)
	}

	updated, err := u.transition(ctx, requestID, t)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Verification request reviewed",
		zap.String("request_id", requestID.String()),
		zap.String("status", string(status)),
		zap.String("admin_id", adminID),
	)
	return updated, nil
}

// Approve is UpdateStatus(verified)
func (u *VerificationUsecase) Approve(ctx context.Context, requestID uuid.UUID, adminID string) (*entities.VerificationRequest, error) {
	return u.UpdateStatus(ctx, requestID, entities.VerificationVerified, "", adminID)
}

// Reject is UpdateStatus(rejected)
func (u *VerificationUsecase) Reject(ctx context.Context, requestID uuid.UUID, reason, adminID string) (*entities.VerificationRequest, error) {
	return u.UpdateStatus(ctx, requestID, entities.VerificationRejected, reason, adminID)
}

// TriggerReVerification sends a verified or rejected request back to pending and clears the profile flag
func (u *VerificationUsecase) TriggerReVerification(ctx context.Context, requestID uuid.UUID, adminID string) (*entities.VerificationRequest, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !entities.CanTransition(req.Status, entities.VerificationPending) {
		return nil, domainerrors.NewError("request is already pending", domainerrors.ErrInvalidTransition)
	}

	updated, err := u.transition(ctx, requestID, entities.NewReset(req.Status, u.now()))
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Re-verification triggered",
		zap.String("request_id", requestID.String()),
		zap.String("from", string(req.Status)),
		zap.String("actor", adminID),
	)
	return updated, nil
}

// transition applies t and the matching profile flag inside one unit of work, then notifies
func (u *VerificationUsecase) transition(ctx context.Context, requestID uuid.UUID, t entities.StatusTransition) (*entities.VerificationRequest, error) {
	var updated *entities.VerificationRequest
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		req, err := u.requests.Transition(txCtx, requestID, t)
		if err != nil {
			return err
		}
		updated = req

		switch {
		case t.To == entities.VerificationVerified:
			return u.profiles.SetVerified(txCtx, req.UserType, req.UserID, true)
		case t.From == entities.VerificationVerified:
			return u.profiles.SetVerified(txCtx, req.UserType, req.UserID, false)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domainerrors.ErrInvalidTransition) && !errors.Is(err, domainerrors.ErrNotFound) {
			logger.Error(ctx, "Verification status transition failed",
				zap.String("request_id", requestID.String()),
				zap.String("to", string(t.To)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	u.metrics.IncTransition(string(t.From), string(t.To), string(updated.UserType))
	u.notify(ctx, t, updated)
	return updated, nil
}

func (u *VerificationUsecase) notify(ctx context.Context, t entities.StatusTransition, req *entities.VerificationRequest) {
	if u.publisher == nil {
		return
	}
	event := entities.StatusEvent{
		RequestID: req.ID,
		UserID:    req.UserID,
		UserType:  req.UserType,
		From:      t.From,
		Status:    t.To,
		Reason:    t.RejectionReason.String,
		At:        t.At,
	}
	if err := u.publisher.PublishStatus(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish status event", zap.String("request_id", req.ID.String()), zap.Error(err))
	}
}

// GetAllRequests lists the review queue with document and reference counts
func (u *VerificationUsecase) GetAllRequests(ctx context.Context, filter entities.VerificationRequestFilter) ([]*entities.VerificationRequestSummary, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domainerrors.NewError(fmt.Sprintf("unknown status %q", filter.Status), domainerrors.ErrInvalidInput)
	}
	return u.requests.List(ctx, filter)
}

// GetAdminRequestView is the request detail plus the actions valid from its status
func (u *VerificationUsecase) GetAdminRequestView(ctx context.Context, requestID uuid.UUID) (*entities.AdminRequestView, error) {
	detail, err := u.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return &entities.AdminRequestView{
		VerificationRequestDetail: detail,
		Actions:                   entities.AdminActionsFor(detail.Status),
	}, nil
}

// UpdateReferenceStatus records the admin's assessment of a reference
func (u *VerificationUsecase) UpdateReferenceStatus(ctx context.Context, referenceID uuid.UUID, status entities.ReferenceStatus) (*entities.VerificationReference, error) {
	if !status.Valid() {
		return nil, domainerrors.NewError(fmt.Sprintf("unknown reference status %q", status), domainerrors.ErrInvalidInput)
	}
	if err := u.references.UpdateStatus(ctx, referenceID, status); err != nil {
		return nil, err
	}
	return u.references.GetByID(ctx, referenceID)
}

// SweepDueReVerifications moves every overdue verified request back to pending.
// It returns how many requests were moved.
func (u *VerificationUsecase) SweepDueReVerifications(ctx context.Context, batchSize int) (int, error) {
	due, err := u.requests.ListDueForReVerification(ctx, u.now(), batchSize)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, req := range due {
		if _, err := u.transition(ctx, req.ID, entities.NewDueReset(u.now())); err != nil {
			if errors.Is(err, domainerrors.ErrInvalidTransition) {
				continue
			}
			return moved, err
		}
		logger.Info(ctx, "Re-verification due, request reopened",
			zap.String("request_id", req.ID.String()),
			zap.String("actor", SystemActor),
		)
		moved++
	}
	u.metrics.AddSweepMoved(moved)
	return moved, nil
}
