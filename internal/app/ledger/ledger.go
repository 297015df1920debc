// Package ledger implements the append-only points ledger and the per-user
// points accounts derived from it.
//
// The ledger is the authoritative record: every balance-affecting event
// appends exactly one immutable entry with a globally monotonic id. Each
// account balance is an incrementally maintained cache of the clamped fold
// of that user's entries; the append and the balance update happen inside
// the same per-user critical section, so the two views cannot diverge.
package ledger

import (
	"log"
	"sync"
	"time"

	"github.com/lql-project/lql/internal/domain"
)

// Archive receives a copy of every appended entry, e.g. for a SQLite audit
// mirror. The in-memory ledger stays authoritative; archive failures are
// logged and do not fail the operation.
type Archive interface {
	Append(entry domain.LedgerEntry) error
}

// account holds one user's balance. Its mutex serializes every
// read-modify-write of that balance: two balance mutations for the same user
// can never interleave between their read and their write.
type account struct {
	mu      sync.Mutex
	balance int
}

// Ledger is the process-wide points ledger plus the account cache.
type Ledger struct {
	mu       sync.Mutex // guards entries, nextID, accounts map shape
	entries  []domain.LedgerEntry
	nextID   int64
	accounts map[int64]*account
	archive  Archive
	now      func() time.Time
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		nextID:   1,
		accounts: make(map[int64]*account),
		now:      time.Now,
	}
}

// SetArchive attaches an audit mirror. Must be called before concurrent use.
func (l *Ledger) SetArchive(a Archive) { l.archive = a }

func (l *Ledger) account(userID int64) *account {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts[userID]
	if !ok {
		acc = &account{}
		l.accounts[userID] = acc
	}
	return acc
}

// append records an entry. Callers must hold the relevant account mutex so
// the entry order matches the balance mutation order for that user.
func (l *Ledger) append(userID int64, amount int, reason string) domain.LedgerEntry {
	l.mu.Lock()
	entry := domain.LedgerEntry{
		ID:        l.nextID,
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		Timestamp: l.now().UTC(),
	}
	l.nextID++
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	if l.archive != nil {
		if err := l.archive.Append(entry); err != nil {
			log.Printf("ledger: archive append failed for entry %d: %v", entry.ID, err)
		}
	}
	return entry
}

// Apply adds a signed delta to the user's balance, clamping the result at
// zero, and appends one ledger entry for the delta. It returns the new
// balance. Apply never fails: a penalty against an empty account still
// writes its entry, and the balance simply stays at zero.
func (l *Ledger) Apply(userID int64, delta int, reason string) int {
	acc := l.account(userID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	l.append(userID, delta, reason)
	acc.balance += delta
	if acc.balance < 0 {
		acc.balance = 0
	}
	return acc.balance
}

// Spend atomically debits cost points from the user's balance. If the
// balance is smaller than cost, nothing changes and ErrInsufficientPoints
// is returned: the check and the debit sit in one critical section, so two
// concurrent spends cannot both pass the check against the same points.
func (l *Ledger) Spend(userID int64, cost int, reason string) (int, error) {
	acc := l.account(userID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	if acc.balance < cost {
		return acc.balance, domain.ErrInsufficientPoints
	}
	l.append(userID, -cost, reason)
	acc.balance -= cost
	return acc.balance, nil
}

// Balance returns the user's current balance, always ≥ 0.
func (l *Ledger) Balance(userID int64) int {
	acc := l.account(userID)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return acc.balance
}

// Entries returns a copy of the user's ledger entries in append order.
func (l *Ledger) Entries(userID int64) []domain.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range l.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// Size returns the total number of entries across all users.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
