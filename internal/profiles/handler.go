package profiles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/shared/server/middleware"
	"portal-backend/internal/shared/server/respond"
)

// Handler serves profile reads.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the read routes on the group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/profiles", h.list)
	rg.GET("/profiles/current", h.current)
	rg.GET("/profiles/:id", h.byID)
}

func (h *Handler) current(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	rec, err := h.svc.Current(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, rec)
}

func (h *Handler) byID(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	profileID := c.Param("id")
	if profileID == "" {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Missing profile id", nil)
		return
	}
	rec, err := h.svc.ByID(c.Request.Context(), userID, profileID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, rec)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	recs, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if recs == nil {
		recs = []Record{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"profiles": recs})
}

func (h *Handler) renderError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "Profile not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load profile", nil)
}
