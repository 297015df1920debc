// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture: it depends on nothing.
package domain

import "time"

// ─── To-Do Types ────────────────────────────────────────────────────────────

// Difficulty weights the points a to-do grants on completion.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is a known difficulty.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Points returns the completion reward for the difficulty.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 5
	default:
		return 0
	}
}

// ToDoKind distinguishes committed daily tasks from optional stretch tasks.
type ToDoKind string

const (
	// KindNormal to-dos cost a point when left undone.
	KindNormal ToDoKind = "normal"
	// KindBestCase to-dos carry no penalty when left undone.
	KindBestCase ToDoKind = "bestCase"
)

// IsValid reports whether k is a known to-do kind.
func (k ToDoKind) IsValid() bool {
	return k == KindNormal || k == KindBestCase
}

// DailyQuota returns the creation limit per user and calendar day for the kind.
func (k ToDoKind) DailyQuota() int {
	if k == KindBestCase {
		return 10
	}
	return 5
}

// ToDoStatus is the lifecycle state of a to-do.
type ToDoStatus string

const (
	StatusOpen    ToDoStatus = "open"
	StatusDone    ToDoStatus = "done"
	StatusNotDone ToDoStatus = "notDone"
)

// IsFinal reports whether s is a valid finalize target.
func (s ToDoStatus) IsFinal() bool {
	return s == StatusDone || s == StatusNotDone
}

// ToDo is a single-day task with a difficulty-weighted point outcome.
type ToDo struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Date        string     `json:"date"` // calendar day, YYYY-MM-DD
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	Kind        ToDoKind   `json:"kind"`
	Status      ToDoStatus `json:"status"`
}

// FinalizeDelta returns the signed point change for finalizing the to-do
// with the given status. Best-case tasks are never penalized.
func (t ToDo) FinalizeDelta(status ToDoStatus) int {
	switch status {
	case StatusDone:
		return t.Difficulty.Points()
	case StatusNotDone:
		if t.Kind == KindNormal {
			return -1
		}
	}
	return 0
}

// ─── Quest Types ────────────────────────────────────────────────────────────

// QuestKind separates the few long-arc main quests from side quests.
type QuestKind string

const (
	QuestMain QuestKind = "main"
	QuestSide QuestKind = "side"
)

// IsValid reports whether k is a known quest kind.
func (k QuestKind) IsValid() bool {
	return k == QuestMain || k == QuestSide
}

// Cap returns the per-user creation limit for the quest kind.
func (k QuestKind) Cap() int {
	if k == QuestMain {
		return 5
	}
	return 20
}

// Quest is a multi-day goal decomposed into ordered stages.
type Quest struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Kind        QuestKind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	RewardID    *int64    `json:"reward_id,omitempty"`
	Stages      []Stage   `json:"stages"`
}

// Progress is the integer completion percentage over the quest's stages.
// A quest with no stages reports 0. Always recomputed, never cached.
func (q Quest) Progress() int {
	if len(q.Stages) == 0 {
		return 0
	}
	done := 0
	for _, s := range q.Stages {
		if s.Completed {
			done++
		}
	}
	return int(float64(done)/float64(len(q.Stages))*100 + 0.5)
}

// Stage is an ordered sub-goal of a quest. It cannot outlive its parent.
type Stage struct {
	ID          int64  `json:"id"`
	QuestID     int64  `json:"quest_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	RewardID    *int64 `json:"reward_id,omitempty"`
	Completed   bool   `json:"completed"`
}

// GoalStage is the Gantt projection of a stage.
type GoalStage struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Completed bool   `json:"completed"`
}

// Goal is the Gantt projection of a main quest with its derived progress.
type Goal struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Start    string      `json:"start,omitempty"`
	End      string      `json:"end,omitempty"`
	Progress int         `json:"progress"`
	Stages   []GoalStage `json:"stages"`
}

// ─── Reward Types ───────────────────────────────────────────────────────────

// Reward is a point-redeemable item defined by the user.
type Reward struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	ExternalLink   string `json:"external_link,omitempty"`
	PointsRequired int    `json:"points_required"`
}

// ─── Ledger Types ───────────────────────────────────────────────────────────

// LedgerEntry is a single row in the append-only points ledger.
// Entries are immutable once written; ids are globally monotonic.
type LedgerEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    int       `json:"amount"` // signed: earn > 0, spend/penalty < 0
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// ─── Law Types ──────────────────────────────────────────────────────────────

// Law batch size bounds. Laws are only created in batches: a rule set is
// written down completely up front, not one rule at a time.
const (
	LawBatchMin = 10
	LawBatchMax = 50
)

// Law is a user-authored rule evaluated against free-text diary entries.
type Law struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Title         string    `json:"title"`
	Prompt        string    `json:"prompt"`
	PenaltyPoints int       `json:"penalty_points"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Violation is one evaluator finding against a law.
type Violation struct {
	LawID         int64 `json:"law_id,omitempty"`
	PenaltyPoints int   `json:"penalty_points"`
}

// ─── Diary Types ────────────────────────────────────────────────────────────

// DiaryEntry is a dated free-text entry, optionally AI-improved and scored
// against the user's laws. Penalties are recorded on the entry for review;
// they are not debited from the points account.
type DiaryEntry struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Date            string    `json:"date"`
	Content         string    `json:"content"`
	ImprovedContent string    `json:"improved_content,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Penalties       int       `json:"penalties"`
	CreatedAt       time.Time `json:"created_at"`
}

// ─── Notification Types ─────────────────────────────────────────────────────

// Notification is a stored per-user reminder. The registry only holds the
// data; nothing in this process delivers it.
type Notification struct {
	ID        string            `json:"id"`
	UserID    int64             `json:"user_id"`
	Type      string            `json:"type"` // e.g. "diary", "deadline"
	Time      string            `json:"time"` // ISO timestamp or HH:MM
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
