package api

import (
	"encoding/json"
	"net/http"

	"github.com/lql-project/lql/internal/app/diary"
	"github.com/lql-project/lql/internal/app/law"
	"github.com/lql-project/lql/internal/app/quest"
	"github.com/lql-project/lql/internal/app/reward"
	"github.com/lql-project/lql/internal/app/todo"
	"github.com/lql-project/lql/internal/domain"
)

// ─── To-Dos ─────────────────────────────────────────────────────────────────

func (s *Server) handleCreateToDo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date        string            `json:"date"`
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Difficulty  domain.Difficulty `json:"difficulty"`
		Kind        domain.ToDoKind   `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.todos.Create(todo.CreateInput{
		UserID:      userID(r),
		Date:        body.Date,
		Title:       body.Title,
		Description: body.Description,
		Difficulty:  body.Difficulty,
		Kind:        body.Kind,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListToDos(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, s.todos.ListForDate(userID(r), date))
}

func (s *Server) handleUpdateToDo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to-do id")
		return
	}
	var patch domain.ToDoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := s.todos.Update(id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteToDo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to-do id")
		return
	}
	if err := s.todos.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFinalizeToDo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to-do id")
		return
	}
	var body struct {
		Status domain.ToDoStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := s.todos.Finalize(id, body.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"points": s.todos.Balance(userID(r))})
}

// ─── Quests ─────────────────────────────────────────────────────────────────

func (s *Server) handleCreateQuest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Kind        domain.QuestKind `json:"kind"`
		Title       string           `json:"title"`
		Description string           `json:"description"`
		StartDate   string           `json:"start_date"`
		EndDate     string           `json:"end_date"`
		RewardID    *int64           `json:"reward_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.quests.CreateQuest(quest.CreateQuestInput{
		UserID:      userID(r),
		Kind:        body.Kind,
		Title:       body.Title,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		RewardID:    body.RewardID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListQuests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.quests.List(userID(r)))
}

func (s *Server) handleGetQuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	q, err := s.quests.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleUpdateQuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	var patch domain.QuestPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := s.quests.UpdateQuest(id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteQuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	if err := s.quests.DeleteQuest(id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuestProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	progress, err := s.quests.Progress(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"progress": progress})
}

func (s *Server) handleAddStage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		RewardID    *int64 `json:"reward_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.quests.AddStage(id, quest.AddStageInput{
		Title:       body.Title,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		RewardID:    body.RewardID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStage(w http.ResponseWriter, r *http.Request) {
	questID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	stageID, err := pathID(r, "stageID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stage id")
		return
	}
	var patch domain.StagePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := s.quests.UpdateStage(questID, stageID, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStage(w http.ResponseWriter, r *http.Request) {
	questID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	stageID, err := pathID(r, "stageID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stage id")
		return
	}
	if err := s.quests.DeleteStage(questID, stageID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.quests.Goals(userID(r)))
}

// ─── Rewards ────────────────────────────────────────────────────────────────

func (s *Server) handleCreateReward(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		ImageURL       string `json:"image_url"`
		ExternalLink   string `json:"external_link"`
		PointsRequired int    `json:"points_required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.rewards.Create(reward.CreateInput{
		UserID:         userID(r),
		Title:          body.Title,
		Description:    body.Description,
		ImageURL:       body.ImageURL,
		ExternalLink:   body.ExternalLink,
		PointsRequired: body.PointsRequired,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListRewards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rewards.List(userID(r)))
}

func (s *Server) handleBuyReward(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reward id")
		return
	}
	balance, err := s.rewards.Buy(userID(r), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"remaining_points": balance})
}

// ─── Laws ───────────────────────────────────────────────────────────────────

func (s *Server) handleCreateLaws(w http.ResponseWriter, r *http.Request) {
	var items []law.BatchItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.laws.CreateBatch(userID(r), items)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListLaws(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.laws.List(userID(r)))
}

// ─── Diary ──────────────────────────────────────────────────────────────────

func (s *Server) handleCreateDiaryEntry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date    string `json:"date"`
		Content string `json:"content"`
		Improve bool   `json:"improve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := s.diary.Create(r.Context(), diary.CreateInput{
		UserID:  userID(r),
		Date:    body.Date,
		Content: body.Content,
		Improve: body.Improve,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListDiaryEntries(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("date"); date != "" {
		writeJSON(w, http.StatusOK, s.diary.ListByDate(userID(r), date))
		return
	}
	writeJSON(w, http.StatusOK, s.diary.List(userID(r)))
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleScheduleNotification(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type    string            `json:"type"`
		Time    string            `json:"time"`
		Payload map[string]string `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	n, err := s.notifications.Schedule(userID(r), body.Type, body.Time, body.Payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.notifications.List(userID(r)))
}
