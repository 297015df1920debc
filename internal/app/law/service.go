// Package law implements the registry of user-authored penalty rules.
// The registry is storage only: evaluating text against laws is delegated
// to the external evaluator collaborator.
package law

import (
	"fmt"
	"sync"
	"time"

	"github.com/lql-project/lql/internal/domain"
)

// Service owns the law collection.
type Service struct {
	mu     sync.RWMutex
	laws   []*domain.Law
	nextID int64
	now    func() time.Time
}

// NewService creates an empty registry.
func NewService() *Service {
	return &Service{nextID: 1, now: time.Now}
}

// BatchItem is one proposed law in a batch.
type BatchItem struct {
	Title         string `json:"title"`
	Prompt        string `json:"prompt"`
	PenaltyPoints int    `json:"penalty_points"`
}

func (it BatchItem) valid() bool {
	return it.Title != "" && it.Prompt != ""
}

// CreateBatch stores a batch of laws for the user. Laws can only be created
// in batches of 10–50; anything else fails with ErrInvalidBatchSize.
//
// Items that fail their own validation are silently skipped; only the
// created subset is returned. A batch of all-invalid items therefore
// returns an empty slice and no error, which is distinct from the
// size-check failure.
func (s *Service) CreateBatch(userID int64, items []BatchItem) ([]domain.Law, error) {
	if len(items) < domain.LawBatchMin || len(items) > domain.LawBatchMax {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidBatchSize, len(items))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]domain.Law, 0, len(items))
	for _, it := range items {
		if !it.valid() {
			continue
		}
		l := &domain.Law{
			ID:            s.nextID,
			UserID:        userID,
			Title:         it.Title,
			Prompt:        it.Prompt,
			PenaltyPoints: it.PenaltyPoints,
			Active:        true,
			CreatedAt:     s.now().UTC(),
		}
		s.nextID++
		s.laws = append(s.laws, l)
		created = append(created, *l)
	}
	return created, nil
}

// List returns all of the user's laws, active and inactive.
func (s *Service) List(userID int64) []domain.Law {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Law, 0)
	for _, l := range s.laws {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out
}
