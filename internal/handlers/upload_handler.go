package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/services"
)

// multipartMemory is how much of a form is held in memory before spilling to disk.
const multipartMemory = 32 << 20

// UploadHandler handles bank statement uploads.
type UploadHandler struct {
	uploadService services.UploadServicer
	auditService  services.AuditServicer
	maxBytes      int64
}

// NewUploadHandler creates a new UploadHandler. maxBytes caps the multipart body.
func NewUploadHandler(uploadService services.UploadServicer, auditService services.AuditServicer, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, auditService: auditService, maxBytes: maxBytes}
}

// ingest reads the multipart form and hands the file to the upload service.
func (h *UploadHandler) ingest(c *gin.Context, scope services.Scope, source models.UploadSource) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		if bodyTooLarge(err) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrFileTooLarge,
				fmt.Sprintf("Uploaded file exceeds the %d byte limit", h.maxBytes)))
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Request must be multipart/form-data"))
		return
	}

	bankAccountID, err := requireParam(c.PostForm("bank_account_id"), "bank_account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "No file uploaded."))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidFile, err))
		return
	}
	defer file.Close()

	result, err := h.uploadService.Ingest(c.Request.Context(), scope, services.IngestRequest{
		BankAccountID: bankAccountID,
		FileName:      header.Filename,
		Content:       file,
		Source:        source,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.UserID, fmt.Sprintf("UPLOAD_%s", source), "bank_upload_batch", result.UploadBatchID, c.ClientIP(),
		map[string]any{
			"bank_account_id":    bankAccountID,
			"file_name":          header.Filename,
			"uploaded":           result.Uploaded,
			"skipped_duplicates": result.SkippedDuplicates,
		})

	c.JSON(http.StatusCreated, result)
}

func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// RecentUploadsResponse wraps the recent uploads of a bank account.
type RecentUploadsResponse struct {
	RecentUploads []services.RecentUpload `json:"recent_uploads"`
}

// Upload handles a bank statement upload
// @Summary     Upload a bank statement
// @Description Ingest a CSV bank statement into a bank account. Duplicate rows are skipped.
// @Tags        bank-uploads
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       bank_account_id formData string true "Bank account ID"
// @Param       file            formData file   true "CSV statement"
// @Success     201 {object} services.UploadResult
// @Failure     400 {object} ErrorResponse "Invalid or unsupported file"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Failure     413 {object} ErrorResponse "File too large"
// @Router      /bank-uploads/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.ingest(c, scope, models.UploadSourceWeb)
}

// PipelineUpload handles a statement pushed by the ingestion pipeline
// @Summary     Pipeline statement upload
// @Description Same as the interactive upload, authenticated by X-API-Key with unrestricted scope
// @Tags        pipeline
// @Accept      multipart/form-data
// @Produce     json
// @Security    ApiKeyAuth
// @Param       bank_account_id formData string true "Bank account ID"
// @Param       file            formData file   true "CSV statement"
// @Success     201 {object} services.UploadResult
// @Failure     400 {object} ErrorResponse "Invalid or unsupported file"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /pipeline/bank-uploads/upload [post]
func (h *UploadHandler) PipelineUpload(c *gin.Context) {
	h.ingest(c, services.SystemScope(), models.UploadSourcePipeline)
}

// GetBatchTransactions lists the rows of one upload batch
// @Summary     Batch transactions
// @Tags        bank-uploads
// @Produce     json
// @Security    BearerAuth
// @Param       batch_id query string true "Upload batch ID"
// @Success     200 {object} services.BatchTransactions
// @Failure     400 {object} ErrorResponse "Missing batch_id"
// @Failure     404 {object} ErrorResponse "Batch not found"
// @Router      /bank-uploads/batch-transactions [get]
func (h *UploadHandler) GetBatchTransactions(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	batchID, err := requireParam(c.Query("batch_id"), "batch_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.uploadService.GetBatchTransactions(c.Request.Context(), scope, batchID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecentUploads lists the last uploads of a bank account
// @Summary     Recent uploads
// @Tags        bank-uploads
// @Produce     json
// @Security    BearerAuth
// @Param       bank_account_id query string true "Bank account ID"
// @Success     200 {object} RecentUploadsResponse
// @Failure     400 {object} ErrorResponse "Missing bank_account_id"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Router      /bank-uploads/recent-uploads [get]
func (h *UploadHandler) GetRecentUploads(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bankAccountID, err := requireParam(c.Query("bank_account_id"), "bank_account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	uploads, err := h.uploadService.GetRecentUploads(c.Request.Context(), scope, bankAccountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if uploads == nil {
		uploads = []services.RecentUpload{}
	}
	c.JSON(http.StatusOK, RecentUploadsResponse{RecentUploads: uploads})
}
