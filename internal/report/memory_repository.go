package report

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	cards map[string]*ReportCard
}

// NewInMemoryRepository creates a new in-memory report repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		cards: make(map[string]*ReportCard),
	}
}

// Create stores a finished report card.
func (r *InMemoryRepository) Create(_ context.Context, card *ReportCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *card
	r.cards[card.ID] = &cpy
	return nil
}

// Get retrieves a report card by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*ReportCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[id]
	if !ok {
		return nil, ErrReportNotFound
	}

	// Return a copy
	cpy := *card
	return &cpy, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
