// Package quest implements the quest tracker: capped main/side quests,
// their ordered stages, and the derived completion progress.
package quest

import (
	"fmt"
	"sync"

	"github.com/lql-project/lql/internal/domain"
)

// Service owns the quest collection, stages included. Stages have no
// existence outside their parent quest.
type Service struct {
	mu          sync.RWMutex
	quests      map[int64]*domain.Quest
	nextQuestID int64
	nextStageID int64
}

// NewService creates an empty quest tracker.
func NewService() *Service {
	return &Service{
		quests:      make(map[int64]*domain.Quest),
		nextQuestID: 1,
		nextStageID: 1,
	}
}

// CreateQuestInput holds the fields required to create a quest.
type CreateQuestInput struct {
	UserID      int64
	Kind        domain.QuestKind
	Title       string
	Description string
	StartDate   string
	EndDate     string
	RewardID    *int64
}

// CreateQuest validates the input and enforces the per-kind cap (5 main,
// 20 side per user) at creation time. The cap is not enforced retroactively.
func (s *Service) CreateQuest(in CreateQuestInput) (domain.Quest, error) {
	if in.Title == "" {
		return domain.Quest{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !in.Kind.IsValid() {
		return domain.Quest{}, fmt.Errorf("%w: unknown quest kind %q", domain.ErrInvalidInput, in.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, q := range s.quests {
		if q.UserID == in.UserID && q.Kind == in.Kind {
			count++
		}
	}
	if cap := in.Kind.Cap(); count >= cap {
		return domain.Quest{}, fmt.Errorf("%w: %d %s quests already exist", domain.ErrQuotaExceeded, count, in.Kind)
	}

	q := &domain.Quest{
		ID:          s.nextQuestID,
		UserID:      in.UserID,
		Kind:        in.Kind,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		RewardID:    in.RewardID,
		Stages:      []domain.Stage{},
	}
	s.nextQuestID++
	s.quests[q.ID] = q
	return cloneQuest(q), nil
}

// Get returns the quest with the given id.
func (s *Service) Get(id int64) (domain.Quest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quests[id]
	if !ok {
		return domain.Quest{}, fmt.Errorf("quest %d: %w", id, domain.ErrNotFound)
	}
	return cloneQuest(q), nil
}

// List returns all quests of the user.
func (s *Service) List(userID int64) []domain.Quest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quest, 0)
	for _, q := range s.quests {
		if q.UserID == userID {
			out = append(out, cloneQuest(q))
		}
	}
	return out
}

// UpdateQuest merges the patch into the quest.
func (s *Service) UpdateQuest(id int64, patch domain.QuestPatch) (domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quests[id]
	if !ok {
		return domain.Quest{}, fmt.Errorf("quest %d: %w", id, domain.ErrNotFound)
	}
	patch.Apply(q)
	return cloneQuest(q), nil
}

// DeleteQuest removes the quest and, with it, every stage it owns.
func (s *Service) DeleteQuest(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quests[id]; !ok {
		return fmt.Errorf("quest %d: %w", id, domain.ErrNotFound)
	}
	delete(s.quests, id)
	return nil
}

// Progress returns the quest's derived completion percentage (0–100).
func (s *Service) Progress(id int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quests[id]
	if !ok {
		return 0, fmt.Errorf("quest %d: %w", id, domain.ErrNotFound)
	}
	return q.Progress(), nil
}

// ─── Stages ─────────────────────────────────────────────────────────────────

// AddStageInput holds the fields required to append a stage to a quest.
type AddStageInput struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
	RewardID    *int64
}

// AddStage appends a new, uncompleted stage to the quest.
func (s *Service) AddStage(questID int64, in AddStageInput) (domain.Stage, error) {
	if in.Title == "" {
		return domain.Stage{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quests[questID]
	if !ok {
		return domain.Stage{}, fmt.Errorf("quest %d: %w", questID, domain.ErrNotFound)
	}

	st := domain.Stage{
		ID:          s.nextStageID,
		QuestID:     questID,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		RewardID:    in.RewardID,
	}
	s.nextStageID++
	q.Stages = append(q.Stages, st)
	return st, nil
}

// UpdateStage merges the patch into the stage. Marking a stage completed
// changes the quest's derived progress but grants no points; reward
// redemption is a separate, explicit action.
func (s *Service) UpdateStage(questID, stageID int64, patch domain.StagePatch) (domain.Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quests[questID]
	if !ok {
		return domain.Stage{}, fmt.Errorf("quest %d: %w", questID, domain.ErrNotFound)
	}
	for i := range q.Stages {
		if q.Stages[i].ID == stageID {
			patch.Apply(&q.Stages[i])
			return q.Stages[i], nil
		}
	}
	return domain.Stage{}, fmt.Errorf("stage %d: %w", stageID, domain.ErrNotFound)
}

// CompleteStage marks the stage completed.
func (s *Service) CompleteStage(questID, stageID int64) (domain.Stage, error) {
	done := true
	return s.UpdateStage(questID, stageID, domain.StagePatch{Completed: &done})
}

// DeleteStage removes the stage from its quest.
func (s *Service) DeleteStage(questID, stageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quests[questID]
	if !ok {
		return fmt.Errorf("quest %d: %w", questID, domain.ErrNotFound)
	}
	for i := range q.Stages {
		if q.Stages[i].ID == stageID {
			q.Stages = append(q.Stages[:i], q.Stages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("stage %d: %w", stageID, domain.ErrNotFound)
}

// ─── Goals Overview ─────────────────────────────────────────────────────────

// Goals projects the user's main quests into the Gantt overview used by the
// goals board: start/end dates plus derived progress per quest.
func (s *Service) Goals(userID int64) []domain.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Goal, 0)
	for _, q := range s.quests {
		if q.UserID != userID || q.Kind != domain.QuestMain {
			continue
		}
		g := domain.Goal{
			ID:       q.ID,
			Title:    q.Title,
			Start:    q.StartDate,
			End:      q.EndDate,
			Progress: q.Progress(),
			Stages:   make([]domain.GoalStage, 0, len(q.Stages)),
		}
		for _, st := range q.Stages {
			g.Stages = append(g.Stages, domain.GoalStage{
				ID:        st.ID,
				Title:     st.Title,
				Start:     st.StartDate,
				End:       st.EndDate,
				Completed: st.Completed,
			})
		}
		out = append(out, g)
	}
	return out
}

// cloneQuest copies the quest so callers never share the stage slice with
// the store.
func cloneQuest(q *domain.Quest) domain.Quest {
	out := *q
	out.Stages = append([]domain.Stage(nil), q.Stages...)
	return out
}
