package reward

import (
	"errors"
	"sync"
	"testing"

	"github.com/lql-project/lql/internal/app/ledger"
	"github.com/lql-project/lql/internal/domain"
)

func setup(t *testing.T, balance int) (*Service, *ledger.Ledger) {
	t.Helper()
	led := ledger.New()
	if balance > 0 {
		led.Apply(1, balance, "seed")
	}
	return NewService(led), led
}

func TestCreate_Validation(t *testing.T) {
	s, _ := setup(t, 0)

	if _, err := s.Create(CreateInput{UserID: 1, PointsRequired: 5}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing title: err = %v, want ErrInvalidInput", err)
	}
	if _, err := s.Create(CreateInput{UserID: 1, Title: "x", PointsRequired: -1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative cost: err = %v, want ErrInvalidInput", err)
	}
	if _, err := s.Create(CreateInput{UserID: 1, Title: "free hug", PointsRequired: 0}); err != nil {
		t.Errorf("zero-cost reward should be allowed: %v", err)
	}
}

func TestBuy(t *testing.T) {
	s, led := setup(t, 10)
	r, err := s.Create(CreateInput{UserID: 1, Title: "movie night", PointsRequired: 6})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	balance, err := s.Buy(1, r.ID)
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if balance != 4 {
		t.Errorf("balance = %d, want 4", balance)
	}

	entries := led.Entries(1)
	last := entries[len(entries)-1]
	if last.Amount != -6 {
		t.Errorf("ledger amount = %d, want -6", last.Amount)
	}
	if last.Reason != "reward purchased: movie night" {
		t.Errorf("ledger reason = %q", last.Reason)
	}
}

func TestBuy_InsufficientPoints(t *testing.T) {
	s, led := setup(t, 3)
	r, _ := s.Create(CreateInput{UserID: 1, Title: "new monitor", PointsRequired: 100})

	_, err := s.Buy(1, r.ID)
	if !errors.Is(err, domain.ErrInsufficientPoints) {
		t.Fatalf("err = %v, want ErrInsufficientPoints", err)
	}
	if got := led.Balance(1); got != 3 {
		t.Errorf("failed buy changed balance: %d", got)
	}
	if got := len(led.Entries(1)); got != 1 {
		t.Errorf("failed buy wrote a ledger entry: %d entries", got)
	}
}

func TestBuy_NotFound(t *testing.T) {
	s, _ := setup(t, 10)
	if _, err := s.Buy(1, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Another user's reward is not visible to the buyer.
	r, _ := s.Create(CreateInput{UserID: 2, Title: "theirs", PointsRequired: 1})
	if _, err := s.Buy(1, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign reward: err = %v, want ErrNotFound", err)
	}
}

// Two concurrent purchases of a reward costing exactly the balance: one
// succeeds, the rest see ErrInsufficientPoints.
func TestBuy_ConcurrentNoDoubleSpend(t *testing.T) {
	s, led := setup(t, 8)
	r, _ := s.Create(CreateInput{UserID: 1, Title: "prize", PointsRequired: 8})

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Buy(1, r.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrInsufficientPoints) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d purchases succeeded, want exactly 1", succeeded)
	}
	if got := led.Balance(1); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}
