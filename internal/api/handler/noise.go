package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/enviroscore/enviroscore/internal/api/models"
	"github.com/enviroscore/enviroscore/internal/api/response"
	"github.com/enviroscore/enviroscore/internal/noise"
)

// maxNoiseRadiusMeters caps the query radius to keep upstream geodata
// queries bounded.
const maxNoiseRadiusMeters = 5000

// NoiseHandler handles the standalone noise assessment endpoint.
type NoiseHandler struct {
	noise *noise.Service
}

// NewNoiseHandler creates a new NoiseHandler.
func NewNoiseHandler(svc *noise.Service) *NoiseHandler {
	return &NoiseHandler{noise: svc}
}

// AssessNoise handles GET /v1/noise?lat=&lon=&radius= - run the acoustic
// model around a coordinate.
func (h *NoiseHandler) AssessNoise(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(query.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		response.BadRequest(w, r, "lat and lon must be valid numbers", []models.FieldError{
			{Field: "lat", Message: "required decimal degrees", Code: "invalid"},
			{Field: "lon", Message: "required decimal degrees", Code: "invalid"},
		})
		return
	}

	radius := 0
	if raw := query.Get("radius"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, r, "radius must be a positive integer", []models.FieldError{
				{Field: "radius", Message: "must be a positive integer", Code: "invalid"},
			})
			return
		}
		radius = parsed
	}
	if radius > maxNoiseRadiusMeters {
		radius = maxNoiseRadiusMeters
	}

	result, err := h.noise.ComputeNoise(r.Context(), lat, lon, radius)
	if err != nil {
		switch {
		case errors.Is(err, noise.ErrInvalidCoordinate):
			response.BadRequest(w, r, "coordinate is out of range", []models.FieldError{
				{Field: "lat", Message: "must be between -90 and 90"},
				{Field: "lon", Message: "must be between -180 and 180"},
			})
		case errors.Is(err, noise.ErrServiceUnavailable):
			response.ServiceUnavailable(w, r, "geographic data provider is unavailable")
		default:
			response.InternalError(w, r, "failed to compute noise assessment")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
