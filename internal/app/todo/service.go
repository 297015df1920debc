// Package todo implements the daily to-do tracker: per-day creation quotas,
// lifecycle transitions, and the point deltas applied on finalization.
package todo

import (
	"fmt"
	"sync"

	"github.com/lql-project/lql/internal/app/ledger"
	"github.com/lql-project/lql/internal/domain"
	"github.com/lql-project/lql/internal/infra/observability"
)

// Service owns the to-do collection. All state is in memory; construct one
// per process (or per test) and share it across handlers.
type Service struct {
	mu     sync.RWMutex
	todos  map[int64]*domain.ToDo
	nextID int64
	points *ledger.Ledger
}

// NewService creates an empty tracker writing point deltas to points.
func NewService(points *ledger.Ledger) *Service {
	return &Service{
		todos:  make(map[int64]*domain.ToDo),
		nextID: 1,
		points: points,
	}
}

// CreateInput holds the fields required to create a to-do.
type CreateInput struct {
	UserID      int64
	Date        string
	Title       string
	Description string
	Difficulty  domain.Difficulty
	Kind        domain.ToDoKind
}

// Create validates the input, enforces the per-day quota for the kind, and
// stores a new to-do in open status. No points are granted at creation.
func (s *Service) Create(in CreateInput) (domain.ToDo, error) {
	if in.Title == "" || in.Date == "" {
		return domain.ToDo{}, fmt.Errorf("%w: title and date are required", domain.ErrInvalidInput)
	}
	if !in.Difficulty.IsValid() {
		return domain.ToDo{}, fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidInput, in.Difficulty)
	}
	if !in.Kind.IsValid() {
		return domain.ToDo{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, in.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.todos {
		if t.UserID == in.UserID && t.Date == in.Date && t.Kind == in.Kind {
			count++
		}
	}
	if quota := in.Kind.DailyQuota(); count >= quota {
		return domain.ToDo{}, fmt.Errorf("%w: %d %s to-dos already exist for %s", domain.ErrQuotaExceeded, count, in.Kind, in.Date)
	}

	t := &domain.ToDo{
		ID:          s.nextID,
		UserID:      in.UserID,
		Date:        in.Date,
		Title:       in.Title,
		Description: in.Description,
		Difficulty:  in.Difficulty,
		Kind:        in.Kind,
		Status:      domain.StatusOpen,
	}
	s.nextID++
	s.todos[t.ID] = t
	return *t, nil
}

// Get returns the to-do with the given id.
func (s *Service) Get(id int64) (domain.ToDo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return domain.ToDo{}, fmt.Errorf("to-do %d: %w", id, domain.ErrNotFound)
	}
	return *t, nil
}

// ListForDate returns the user's to-dos for one calendar day.
func (s *Service) ListForDate(userID int64, date string) []domain.ToDo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ToDo, 0)
	for _, t := range s.todos {
		if t.UserID == userID && t.Date == date {
			out = append(out, *t)
		}
	}
	return out
}

// Update merges the patch into the to-do. Quotas are not re-checked here:
// moving a to-do onto a full day via update is accepted (creation-time
// limit only, see domain.ToDoPatch).
func (s *Service) Update(id int64, patch domain.ToDoPatch) (domain.ToDo, error) {
	if patch.Difficulty != nil && !patch.Difficulty.IsValid() {
		return domain.ToDo{}, fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidInput, *patch.Difficulty)
	}
	if patch.Kind != nil && !patch.Kind.IsValid() {
		return domain.ToDo{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, *patch.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return domain.ToDo{}, fmt.Errorf("to-do %d: %w", id, domain.ErrNotFound)
	}
	patch.Apply(t)
	return *t, nil
}

// Delete removes the to-do permanently. Points already granted by a prior
// finalize are not reversed.
func (s *Service) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return fmt.Errorf("to-do %d: %w", id, domain.ErrNotFound)
	}
	delete(s.todos, id)
	return nil
}

// FinalizeResult is the outcome of a finalize call.
type FinalizeResult struct {
	ToDo       domain.ToDo `json:"todo"`
	NewBalance int         `json:"points"`
}

// Finalize transitions the to-do to done or notDone and applies the point
// delta for that outcome, clamped at a zero floor.
//
// Finalize is deliberately not idempotent: calling it again on an already
// finalized to-do applies the delta again and appends another ledger entry.
// Repeated calls are how a status is corrected, with compensating deltas.
func (s *Service) Finalize(id int64, status domain.ToDoStatus) (FinalizeResult, error) {
	if !status.IsFinal() {
		return FinalizeResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return FinalizeResult{}, fmt.Errorf("to-do %d: %w", id, domain.ErrNotFound)
	}

	t.Status = status
	delta := t.FinalizeDelta(status)

	var reason string
	if status == domain.StatusDone {
		reason = fmt.Sprintf("to-do done: %s (%s)", t.Title, t.Difficulty)
	} else {
		reason = fmt.Sprintf("to-do not done: %s", t.Title)
	}
	balance := s.points.Apply(t.UserID, delta, reason)

	observability.TodosFinalized.WithLabelValues(string(status)).Inc()
	observability.RecordDelta(delta)
	observability.LedgerEntries.Set(float64(s.points.Size()))

	return FinalizeResult{ToDo: *t, NewBalance: balance}, nil
}

// Balance returns the user's current point balance, always ≥ 0.
func (s *Service) Balance(userID int64) int {
	return s.points.Balance(userID)
}
