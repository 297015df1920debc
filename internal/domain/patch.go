package domain

// ─── Typed Patches ──────────────────────────────────────────────────────────
// Updates accept explicit field sets instead of arbitrary maps. A nil field
// means "leave unchanged". Identity fields (id, user id) are not patchable by
// construction, and unknown fields cannot reach the engine at all.

// ToDoPatch is the set of to-do fields an update may change.
//
// Patching Date or Kind does not re-check the per-day creation quota; a
// to-do edited into a day that is already at capacity is accepted. Quotas
// are a creation-time limit only.
type ToDoPatch struct {
	Date        *string     `json:"date,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Difficulty  *Difficulty `json:"difficulty,omitempty"`
	Kind        *ToDoKind   `json:"kind,omitempty"`
}

// Apply merges the patch into t.
func (p ToDoPatch) Apply(t *ToDo) {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Difficulty != nil {
		t.Difficulty = *p.Difficulty
	}
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
}

// QuestPatch is the set of quest fields an update may change. The kind is
// fixed at creation; changing it would let a quest dodge its cap.
type QuestPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	RewardID    *int64  `json:"reward_id,omitempty"`
}

// Apply merges the patch into q.
func (p QuestPatch) Apply(q *Quest) {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.StartDate != nil {
		q.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		q.EndDate = *p.EndDate
	}
	if p.RewardID != nil {
		q.RewardID = p.RewardID
	}
}

// StagePatch is the set of stage fields an update may change.
type StagePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	RewardID    *int64  `json:"reward_id,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Apply merges the patch into s.
func (p StagePatch) Apply(s *Stage) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.StartDate != nil {
		s.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		s.EndDate = *p.EndDate
	}
	if p.RewardID != nil {
		s.RewardID = p.RewardID
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
}
