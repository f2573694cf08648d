package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/complaint-helper/api/internal/dto"
	middlewarepkg "github.com/octobees/complaint-helper/api/internal/middleware"
	"github.com/octobees/complaint-helper/api/internal/service/lookup"
)

// CompanyResolver answers company lookups.
type CompanyResolver interface {
	Resolve(company string) lookup.Result
}

// LookupHandler exposes the company handle lookup endpoint.
type LookupHandler struct {
	resolver CompanyResolver
}

// NewLookupHandler creates a new handler instance.
func NewLookupHandler(resolver CompanyResolver) *LookupHandler {
	return &LookupHandler{resolver: resolver}
}

// GetSocialHandles handles GET /api/getSocialHandles requests.
func (h *LookupHandler) GetSocialHandles(c echo.Context) error {
	company := strings.TrimSpace(c.QueryParam("company"))
	if company == "" {
		return Error(c, http.StatusBadRequest, "Company name is required")
	}

	result := h.resolver.Resolve(company)

	zap.L().Info("company lookup",
		zap.String("request_id", middlewarepkg.RequestIDFromContext(c)),
		zap.String("outcome", result.Outcome.String()),
		zap.String("match", string(result.Match)),
		zap.String("matched_name", result.CompanyName),
	)

	return c.JSON(http.StatusOK, dto.NewSocialHandlesResponse(result))
}
