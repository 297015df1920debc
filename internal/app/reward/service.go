// Package reward implements the reward catalog and the atomic
// points-for-reward redemption.
package reward

import (
	"fmt"
	"sync"

	"github.com/lql-project/lql/internal/app/ledger"
	"github.com/lql-project/lql/internal/domain"
	"github.com/lql-project/lql/internal/infra/observability"
)

// Service owns the reward catalog and debits the points ledger on purchase.
type Service struct {
	mu      sync.RWMutex
	rewards map[int64]*domain.Reward
	nextID  int64
	points  *ledger.Ledger
}

// NewService creates an empty catalog spending against points.
func NewService(points *ledger.Ledger) *Service {
	return &Service{
		rewards: make(map[int64]*domain.Reward),
		nextID:  1,
		points:  points,
	}
}

// CreateInput holds the fields required to create a reward.
type CreateInput struct {
	UserID         int64
	Title          string
	Description    string
	ImageURL       string
	ExternalLink   string
	PointsRequired int
}

// Create validates the input and stores a new reward.
func (s *Service) Create(in CreateInput) (domain.Reward, error) {
	if in.Title == "" {
		return domain.Reward{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.PointsRequired < 0 {
		return domain.Reward{}, fmt.Errorf("%w: points required must not be negative", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r := &domain.Reward{
		ID:             s.nextID,
		UserID:         in.UserID,
		Title:          in.Title,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		ExternalLink:   in.ExternalLink,
		PointsRequired: in.PointsRequired,
	}
	s.nextID++
	s.rewards[r.ID] = r
	return *r, nil
}

// List returns all rewards defined by the user.
func (s *Service) List(userID int64) []domain.Reward {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reward, 0)
	for _, r := range s.rewards {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out
}

// Buy redeems the reward for the user. The balance check and the debit are
// one atomic unit inside the ledger, so concurrent purchases cannot spend
// the same points twice. On failure, balance and ledger are untouched.
func (s *Service) Buy(userID, rewardID int64) (int, error) {
	s.mu.RLock()
	r, ok := s.rewards[rewardID]
	if ok && r.UserID != userID {
		ok = false // rewards are looked up among the buyer's own rewards
	}
	var cost int
	var title string
	if ok {
		cost, title = r.PointsRequired, r.Title
	}
	s.mu.RUnlock()

	if !ok {
		return 0, fmt.Errorf("reward %d: %w", rewardID, domain.ErrNotFound)
	}

	balance, err := s.points.Spend(userID, cost, fmt.Sprintf("reward purchased: %s", title))
	if err != nil {
		return 0, fmt.Errorf("reward %q: %w", title, err)
	}

	observability.RewardsBought.Inc()
	observability.PointsSpent.Add(float64(cost))
	observability.LedgerEntries.Set(float64(s.points.Size()))
	return balance, nil
}
