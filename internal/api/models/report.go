package models

// ReportCardRequest is the body of POST /v1/report-card. Address accepts a
// free-form place name or a raw "lat, lon" pair.
type ReportCardRequest struct {
	Address string `json:"address" validate:"required"`
}
