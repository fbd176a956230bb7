package ingestion

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/documents"
	"portal-backend/internal/shared/server/middleware"
	"portal-backend/internal/shared/server/respond"
)

// Handler exposes the import endpoint.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the import route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/profiles/import", h.importProfile)
}

func (h *Handler) importProfile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	// Half a MiB of headroom for multipart framing so the service-level
	// gate, not the reader, decides the FILE_TOO_LARGE outcome for
	// payloads right at the limit.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSizeBytes+1<<19)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeFileTooLarge, "file exceeds the 10 MiB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	doc := documents.New(data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)

	profile, err := h.Svc.Ingest(c.Request.Context(), userID, doc)
	if err != nil {
		h.renderError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, profile)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	code := Code(err)
	switch {
	case errors.Is(err, ErrFileTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, code, "file exceeds the 10 MiB limit", nil)
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusUnprocessableEntity, code, "no usable resume content was extracted", nil)
	case errors.Is(err, ErrCredentialMissing), errors.Is(err, ErrProvider), errors.Is(err, ErrMapping):
		respond.Error(c, http.StatusBadGateway, code, "resume parsing is temporarily unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, code, "failed to import resume", nil)
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
