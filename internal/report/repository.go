package report

import "context"

// Repository defines the interface for report card persistence.
type Repository interface {
	// Create stores a finished report card.
	Create(ctx context.Context, card *ReportCard) error

	// Get retrieves a report card by ID.
	// Returns ErrReportNotFound if no report exists with the ID.
	Get(ctx context.Context, id string) (*ReportCard, error)
}
