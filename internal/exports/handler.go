package exports

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotation_backend/platform/httpkit"
)

// Handler handles HTTP requests for quotation exports.
type Handler struct {
	svc *Service
}

const msgInvalidID = "invalid quotation ID"

// NewHandler creates a new exports handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Export renders a quotation to xlsx, stores it and returns a download URL.
// POST /api/v1/quotations/:id/export
func (h *Handler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Export(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}
