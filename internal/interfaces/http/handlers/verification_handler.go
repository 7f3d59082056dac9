package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/interfaces/http/response"
	"tutorlink.backend/internal/usecases"
)

const (
	// multipartOverhead leaves room for boundaries and form fields around the files
	multipartOverhead = 1 << 20
	maxBatchFiles     = 8
	defaultMimeType   = "application/octet-stream"
)

// VerificationHandler serves the applicant side of the verification flow
type VerificationHandler struct {
	verificationUsecase *usecases.VerificationUsecase
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationUsecase *usecases.VerificationUsecase) *VerificationHandler {
	return &VerificationHandler{verificationUsecase: verificationUsecase}
}

// CreateRequest opens (or returns) the caller's request for a role
// POST /api/v1/verification/requests
func (h *VerificationHandler) CreateRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input entities.CreateVerificationRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	req, err := h.verificationUsecase.CreateRequest(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"request": req})
}

// GetRequest returns one of the caller's requests with its documents, references and test attempts
// GET /api/v1/verification/requests/:id
func (h *VerificationHandler) GetRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.verificationUsecase.GetOwnRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		notFoundOr(c, err, "Verification request not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": detail})
}

// GetLatestRequest returns the caller's newest request, or null
// GET /api/v1/verification/requests/latest
func (h *VerificationHandler) GetLatestRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	req, err := h.verificationUsecase.GetUserRequest(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": req})
}

// GetMyStatus renders the status page: request, checklist, guidance and actions
// GET /api/v1/verification/me?role=tutor
func (h *VerificationHandler) GetMyStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.verificationUsecase.GetStatusView(c.Request.Context(), userID, entities.UserType(c.Query("role")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GetDocumentSlots lists the upload slots for a role
// GET /api/v1/verification/document-slots?role=institute
func (h *VerificationHandler) GetDocumentSlots(c *gin.Context) {
	role := entities.UserType(c.Query("role"))
	if !role.Valid() {
		response.Error(c, domainerrors.BadRequest("role must be tutor or institute"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"userType": role,
		"slots":    entities.DocumentSlotsFor(role),
	})
}

// UploadDocument stores one file for a slot
// POST /api/v1/verification/requests/:id/documents (multipart: documentType, file)
func (h *VerificationHandler) UploadDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.verificationUsecase.UploadLimit()+multipartOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, multipartError(err, "file is required"))
		return
	}

	doc, err := h.verificationUsecase.UploadDocument(c.Request.Context(), userID, requestID,
		uploadFile(entities.DocumentType(c.PostForm("documentType")), fh))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"document": doc})
}

// UploadBatch stores several files in order. files[i] goes to documentTypes[i].
// POST /api/v1/verification/requests/:id/documents/batch
func (h *VerificationHandler) UploadBatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchFiles*h.verificationUsecase.UploadLimit()+multipartOverhead)
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, multipartError(err, "multipart form is required"))
		return
	}
	headers := form.File["files"]
	types := form.Value["documentTypes"]
	if len(headers) == 0 {
		response.Error(c, domainerrors.BadRequest("files are required"))
		return
	}
	if len(headers) != len(types) {
		response.Error(c, domainerrors.BadRequest("each file needs a matching documentTypes entry"))
		return
	}
	if len(headers) > maxBatchFiles {
		response.Error(c, domainerrors.BadRequest("too many files"))
		return
	}

	files := make([]*entities.UploadFile, len(headers))
	for i, fh := range headers {
		files[i] = uploadFile(entities.DocumentType(types[i]), fh)
	}

	result, err := h.verificationUsecase.UploadBatch(c.Request.Context(), userID, requestID, files)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.Uploaded < result.Total {
		status = http.StatusMultiStatus
	}
	response.Success(c, status, result)
}

// AddReference attaches a reference to a pending request
// POST /api/v1/verification/requests/:id/references
func (h *VerificationHandler) AddReference(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input entities.AddReferenceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	ref, err := h.verificationUsecase.AddReference(c.Request.Context(), userID, requestID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reference": ref})
}

// AddTestAttempt records a competency test result on a pending request
// POST /api/v1/verification/requests/:id/test-attempts
func (h *VerificationHandler) AddTestAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input entities.AddTestAttemptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	attempt, err := h.verificationUsecase.AddTestAttempt(c.Request.Context(), userID, requestID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"testAttempt": attempt})
}

func multipartError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domainerrors.NewError("upload exceeds size limit", domainerrors.ErrPayloadTooLarge)
	}
	return domainerrors.BadRequest(message)
}

// uploadFile adapts a multipart part. The declared content type is trusted
// unless it is missing or generic, in which case the bytes are sniffed.
func uploadFile(docType entities.DocumentType, fh *multipart.FileHeader) *entities.UploadFile {
	return &entities.UploadFile{
		DocumentType: docType,
		FileName:     fh.Filename,
		ContentType:  contentType(fh),
		Size:         fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func contentType(fh *multipart.FileHeader) string {
	declared := fh.Header.Get("Content-Type")
	if declared != "" && declared != defaultMimeType {
		return declared
	}
	f, err := fh.Open()
	if err != nil {
		return defaultMimeType
	}
	defer f.Close()
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return defaultMimeType
	}
	return mt.String()
}
