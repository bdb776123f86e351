package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Composite sections are stored as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL report repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a finished report card.
func (r *PostgresRepository) Create(ctx context.Context, card *ReportCard) error {
	airJSON, err := json.Marshal(card.AirQuality)
	if err != nil {
		return fmt.Errorf("encode air quality section: %w", err)
	}
	noiseJSON, err := json.Marshal(card.Noise)
	if err != nil {
		return fmt.Errorf("encode noise section: %w", err)
	}
	civicJSON, err := json.Marshal(card.CivicComplaints)
	if err != nil {
		return fmt.Errorf("encode complaints section: %w", err)
	}

	query := `
		INSERT INTO report_cards (
			id, location, lat, lon, overall_score,
			air_quality, noise, noise_day, noise_night, civic_complaints,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.pool.Exec(ctx, query,
		card.ID,
		card.Location,
		card.Lat,
		card.Lon,
		card.OverallScore,
		airJSON,
		noiseJSON,
		card.NoiseLevel.Day,
		card.NoiseLevel.Night,
		civicJSON,
		card.CreatedAt,
	)
	return err
}

// Get retrieves a report card by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*ReportCard, error) {
	query := `
		SELECT
			id, location, lat, lon, overall_score,
			air_quality, noise, noise_day, noise_night, civic_complaints,
			created_at
		FROM report_cards
		WHERE id = $1
	`

	var (
		card      ReportCard
		airJSON   []byte
		noiseJSON []byte
		civicJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&card.ID,
		&card.Location,
		&card.Lat,
		&card.Lon,
		&card.OverallScore,
		&airJSON,
		&noiseJSON,
		&card.NoiseLevel.Day,
		&card.NoiseLevel.Night,
		&civicJSON,
		&card.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if err := decodeSection(airJSON, &card.AirQuality); err != nil {
		return nil, fmt.Errorf("decode air quality section: %w", err)
	}
	if err := decodeSection(noiseJSON, &card.Noise); err != nil {
		return nil, fmt.Errorf("decode noise section: %w", err)
	}
	if err := decodeSection(civicJSON, &card.CivicComplaints); err != nil {
		return nil, fmt.Errorf("decode complaints section: %w", err)
	}

	return &card, nil
}

// decodeSection unmarshals a JSONB column into its typed pointer. A stored
// JSON null leaves the target nil.
func decodeSection(data []byte, out any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
