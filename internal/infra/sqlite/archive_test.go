package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lql-project/lql/internal/app/ledger"
	"github.com/lql-project/lql/internal/domain"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAppendAndList(t *testing.T) {
	a := openTestArchive(t)

	entries := []domain.LedgerEntry{
		{ID: 1, UserID: 1, Amount: 5, Reason: "to-do done: run (hard)", Timestamp: time.Now().UTC()},
		{ID: 2, UserID: 2, Amount: 1, Reason: "to-do done: read (easy)", Timestamp: time.Now().UTC()},
		{ID: 3, UserID: 1, Amount: -2, Reason: "reward purchased: coffee", Timestamp: time.Now().UTC()},
	}
	for _, e := range entries {
		if err := a.Append(e); err != nil {
			t.Fatalf("Append(%d): %v", e.ID, err)
		}
	}

	got, err := a.ListByUser(1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("user 1 archived entries = %d, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("archived ids = %d, %d, want 1, 3", got[0].ID, got[1].ID)
	}
	if got[1].Amount != -2 || got[1].Reason != "reward purchased: coffee" {
		t.Errorf("archived entry = %+v", got[1])
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	a := openTestArchive(t)

	e := domain.LedgerEntry{ID: 1, UserID: 1, Amount: 1, Reason: "x", Timestamp: time.Now()}
	if err := a.Append(e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := a.Append(e); err == nil {
		t.Fatal("expected primary key violation on duplicate id")
	}
}

// The archive plugs into the ledger as its audit mirror.
func TestArchiveAsLedgerMirror(t *testing.T) {
	a := openTestArchive(t)
	led := ledger.New()
	led.SetArchive(a)

	led.Apply(1, 5, "to-do done: run (hard)")
	if _, err := led.Spend(1, 3, "reward purchased: coffee"); err != nil {
		t.Fatalf("Spend: %v", err)
	}

	got, err := a.ListByUser(1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("archived entries = %d, want 2", len(got))
	}
	mem := led.Entries(1)
	for i := range mem {
		if got[i].ID != mem[i].ID || got[i].Amount != mem[i].Amount {
			t.Errorf("archive diverges from ledger at %d: %+v vs %+v", i, got[i], mem[i])
		}
	}
}
