// Package notify stores per-user reminders. It is a data registry only:
// nothing in this process delivers notifications.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lql-project/lql/internal/domain"
)

// Service owns the notification collection.
type Service struct {
	mu            sync.RWMutex
	notifications []*domain.Notification
	now           func() time.Time
}

// NewService creates an empty registry.
func NewService() *Service {
	return &Service{now: time.Now}
}

// Schedule stores a reminder for the user. Type and time are required.
func (s *Service) Schedule(userID int64, kind, at string, payload map[string]string) (domain.Notification, error) {
	if kind == "" || at == "" {
		return domain.Notification{}, fmt.Errorf("%w: type and time are required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Time:      at,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	s.notifications = append(s.notifications, n)
	return *n, nil
}

// List returns all of the user's notifications in creation order.
func (s *Service) List(userID int64) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out
}
