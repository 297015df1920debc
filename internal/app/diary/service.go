// Package diary implements dated free-text entries with optional AI
// improvement and law evaluation.
//
// Both collaborator calls are fail-open: an evaluator error means zero
// penalties, an improver error means the entry stays as written. The user
// never sees a collaborator failure.
package diary

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lql-project/lql/internal/app/law"
	"github.com/lql-project/lql/internal/domain"
	"github.com/lql-project/lql/internal/infra/gemini"
	"github.com/lql-project/lql/internal/infra/observability"
)

// Evaluator checks text against laws. Implemented by gemini.Client.
type Evaluator interface {
	CheckLaws(ctx context.Context, text string, laws []domain.Law) ([]domain.Violation, error)
}

// Improver rewrites diary text. Implemented by gemini.Client.
type Improver interface {
	ImproveEntry(ctx context.Context, text string) (gemini.Improvement, error)
}

// Service owns the diary entries. Evaluator and improver may be nil, which
// behaves like a collaborator that always fails (fail-open to no findings).
type Service struct {
	mu        sync.RWMutex
	entries   []*domain.DiaryEntry
	nextID    int64
	laws      *law.Service
	evaluator Evaluator
	improver  Improver
	now       func() time.Time
}

// NewService creates an empty diary backed by the user's law registry.
func NewService(laws *law.Service, evaluator Evaluator, improver Improver) *Service {
	return &Service{
		nextID:    1,
		laws:      laws,
		evaluator: evaluator,
		improver:  improver,
		now:       time.Now,
	}
}

// CreateInput holds the fields for a new diary entry.
type CreateInput struct {
	UserID  int64
	Date    string
	Content string
	Improve bool
}

// Create stores a new entry. When requested, the content is first sent to
// the improver; the entry is then scored against the user's laws. Neither
// collaborator holds any lock while it runs, and neither can fail the
// operation.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.DiaryEntry, error) {
	if in.Content == "" || in.Date == "" {
		return domain.DiaryEntry{}, fmt.Errorf("%w: content and date are required", domain.ErrInvalidInput)
	}

	var improved string
	var tags []string
	if in.Improve && s.improver != nil {
		imp, err := s.improver.ImproveEntry(ctx, in.Content)
		if err != nil {
			observability.ImproverCalls.WithLabelValues("error").Inc()
			log.Printf("diary: improver failed, keeping original content: %v", err)
		} else {
			observability.ImproverCalls.WithLabelValues("ok").Inc()
			improved = imp.Improved
			tags = imp.Tags
		}
	}

	penalties := 0
	if s.evaluator != nil {
		if laws := s.laws.List(in.UserID); len(laws) > 0 {
			violations, err := s.evaluator.CheckLaws(ctx, in.Content, laws)
			if err != nil {
				observability.EvaluatorCalls.WithLabelValues("error").Inc()
				log.Printf("diary: evaluator failed, assuming no violations: %v", err)
			} else {
				observability.EvaluatorCalls.WithLabelValues("ok").Inc()
				for _, v := range violations {
					penalties += v.PenaltyPoints
				}
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := &domain.DiaryEntry{
		ID:              s.nextID,
		UserID:          in.UserID,
		Date:            in.Date,
		Content:         in.Content,
		ImprovedContent: improved,
		Tags:            tags,
		Penalties:       penalties,
		CreatedAt:       s.now().UTC(),
	}
	s.nextID++
	s.entries = append(s.entries, e)
	return *e, nil
}

// List returns all of the user's entries in creation order.
func (s *Service) List(userID int64) []domain.DiaryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DiaryEntry, 0)
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out
}

// ListByDate returns the user's entries for one calendar day.
func (s *Service) ListByDate(userID int64, date string) []domain.DiaryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DiaryEntry, 0)
	for _, e := range s.entries {
		if e.UserID == userID && e.Date == date {
			out = append(out, *e)
		}
	}
	return out
}
