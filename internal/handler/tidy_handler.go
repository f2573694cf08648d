package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/complaint-helper/api/internal/dto"
	middlewarepkg "github.com/octobees/complaint-helper/api/internal/middleware"
	"github.com/octobees/complaint-helper/api/internal/service"
)

// TidyHandler forwards complaint text to the tidy service.
type TidyHandler struct {
	service *service.TidyService
}

// NewTidyHandler wires the handler.
func NewTidyHandler(svc *service.TidyService) *TidyHandler {
	return &TidyHandler{service: svc}
}

// TidyComplaint handles POST /api/tidyComplaint requests.
func (h *TidyHandler) TidyComplaint(c echo.Context) error {
	var req dto.TidyComplaintRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	text, err := h.service.Tidy(c.Request().Context(), service.ComplaintDraft{
		Complaint:        req.Complaint,
		Name:             req.Name,
		CompanyName:      req.CompanyName,
		RegulatoryBodies: req.RegulatoryBodies,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, dto.TidyComplaintResponse{TidiedComplaint: text})
	case errors.Is(err, service.ErrEmptyComplaint):
		return Error(c, http.StatusBadRequest, "Complaint text is required")
	case errors.Is(err, service.ErrComplaintTooLong):
		return Error(c, http.StatusBadRequest, "Complaint text is too long")
	case errors.Is(err, service.ErrNameTooLong):
		return Error(c, http.StatusBadRequest, "Name is too long")
	case errors.Is(err, service.ErrTooManyRegulators):
		return Error(c, http.StatusBadRequest, "Too many regulatory bodies selected")
	case errors.Is(err, service.ErrTidyDisabled):
		return Error(c, http.StatusServiceUnavailable, "Complaint tidying is not configured")
	default:
		zap.L().Error("tidy complaint failed",
			zap.String("request_id", middlewarepkg.RequestIDFromContext(c)),
			zap.Error(err),
		)
		return Error(c, http.StatusBadGateway, "Failed to tidy complaint")
	}
}
