package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/enviroscore/enviroscore/internal/api/models"
	"github.com/enviroscore/enviroscore/internal/api/response"
	"github.com/enviroscore/enviroscore/internal/geocode"
	"github.com/enviroscore/enviroscore/internal/report"
)

// ReportHandler handles report card endpoints.
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// CreateReportCard handles POST /v1/report-card - build a full environment
// report for an address or coordinate pair.
func (h *ReportHandler) CreateReportCard(w http.ResponseWriter, r *http.Request) {
	var input models.ReportCardRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if strings.TrimSpace(input.Address) == "" {
		response.BadRequest(w, r, "address is required", []models.FieldError{
			{Field: "address", Message: "must not be empty", Code: "required"},
		})
		return
	}

	card, err := h.reports.BuildReport(r.Context(), input.Address)
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrNotFound):
			response.NotFound(w, r, "location could not be resolved")
		case errors.Is(err, report.ErrSectionFailed):
			response.ServiceUnavailable(w, r, "upstream environmental data is unavailable")
		default:
			response.InternalError(w, r, "failed to build report card")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, card)
}

// GetReportCard handles GET /v1/reports/{reportId} - fetch a stored report.
func (h *ReportHandler) GetReportCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportId")

	card, err := h.reports.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound) {
			response.NotFound(w, r, "report not found")
			return
		}
		response.InternalError(w, r, "failed to load report card")
		return
	}

	response.JSON(w, r, http.StatusOK, card)
}
