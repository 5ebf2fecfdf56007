package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tollgate/internal/application/admission/dto"
	"tollgate/internal/domain/admission"
	"tollgate/internal/shared/logger"
)

// AdmissionReader exposes the read side of the admission ledger.
type AdmissionReader interface {
	GetAdmission(ctx context.Context, userID int64) (*dto.AdmissionResponse, error)
}

type AdmissionHandler struct {
	reader AdmissionReader
	logger logger.Interface
}

func NewAdmissionHandler(reader AdmissionReader) *AdmissionHandler {
	return &AdmissionHandler{
		reader: reader,
		logger: logger.NewLogger().With("component", "admission_handler"),
	}
}

// GetAdmission handles GET /api/admissions/:user_id.
func (h *AdmissionHandler) GetAdmission(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	record, err := h.reader.GetAdmission(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, admission.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "admission not found"})
			return
		}
		h.logger.Errorw("failed to get admission", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, record)
}
