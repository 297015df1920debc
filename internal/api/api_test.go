package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lql-project/lql/internal/app/diary"
	"github.com/lql-project/lql/internal/app/law"
	"github.com/lql-project/lql/internal/app/ledger"
	"github.com/lql-project/lql/internal/app/notify"
	"github.com/lql-project/lql/internal/app/quest"
	"github.com/lql-project/lql/internal/app/reward"
	"github.com/lql-project/lql/internal/app/todo"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	led := ledger.New()
	laws := law.NewService()
	srv := NewServer(
		todo.NewService(led),
		quest.NewService(),
		reward.NewService(led),
		laws,
		diary.NewService(laws, nil, nil),
		notify.NewService(),
	)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// ─── To-Do Flow ─────────────────────────────────────────────────────────────

func TestToDoLifecycle(t *testing.T) {
	h := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/todos/", map[string]interface{}{
		"date": "2026-08-31", "title": "run 5k", "difficulty": "hard", "kind": "normal",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &created)
	if created.Status != "open" {
		t.Errorf("status = %q, want open", created.Status)
	}

	w = do(t, h, http.MethodPost, fmt.Sprintf("/api/todos/%d/finalize", created.ID), map[string]string{"status": "done"})
	if w.Code != http.StatusOK {
		t.Fatalf("finalize: status %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		Points int `json:"points"`
	}
	decode(t, w, &res)
	if res.Points != 5 {
		t.Errorf("points = %d, want 5", res.Points)
	}

	w = do(t, h, http.MethodGet, "/api/points", nil)
	var pts map[string]int
	decode(t, w, &pts)
	if pts["points"] != 5 {
		t.Errorf("balance = %d, want 5", pts["points"])
	}
}

func TestToDoQuotaOverHTTP(t *testing.T) {
	h := setupServer(t)

	body := map[string]interface{}{
		"date": "2026-08-31", "title": "task", "difficulty": "easy", "kind": "normal",
	}
	for i := 0; i < 5; i++ {
		if w := do(t, h, http.MethodPost, "/api/todos/", body); w.Code != http.StatusCreated {
			t.Fatalf("create #%d: status %d", i+1, w.Code)
		}
	}
	if w := do(t, h, http.MethodPost, "/api/todos/", body); w.Code != http.StatusBadRequest {
		t.Errorf("6th create: status %d, want 400", w.Code)
	}
}

func TestFinalizeInvalidStatus(t *testing.T) {
	h := setupServer(t)
	w := do(t, h, http.MethodPost, "/api/todos/", map[string]interface{}{
		"date": "2026-08-31", "title": "x", "difficulty": "easy", "kind": "normal",
	})
	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &created)

	w = do(t, h, http.MethodPost, fmt.Sprintf("/api/todos/%d/finalize", created.ID), map[string]string{"status": "open"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", w.Code)
	}

	w = do(t, h, http.MethodPost, "/api/todos/999/finalize", map[string]string{"status": "done"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status %d, want 404", w.Code)
	}
}

// ─── Quest Flow ─────────────────────────────────────────────────────────────

func TestQuestStagesAndProgress(t *testing.T) {
	h := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/quests/", map[string]string{"kind": "main", "title": "ship v1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create quest: status %d: %s", w.Code, w.Body.String())
	}
	var q struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &q)

	var stageIDs []int64
	for _, title := range []string{"design", "build", "test", "release"} {
		w = do(t, h, http.MethodPost, fmt.Sprintf("/api/quests/%d/stages", q.ID), map[string]string{"title": title})
		if w.Code != http.StatusCreated {
			t.Fatalf("add stage: status %d", w.Code)
		}
		var st struct {
			ID int64 `json:"id"`
		}
		decode(t, w, &st)
		stageIDs = append(stageIDs, st.ID)
	}

	w = do(t, h, http.MethodPut, fmt.Sprintf("/api/quests/%d/stages/%d", q.ID, stageIDs[0]), map[string]bool{"completed": true})
	if w.Code != http.StatusOK {
		t.Fatalf("complete stage: status %d", w.Code)
	}

	w = do(t, h, http.MethodGet, fmt.Sprintf("/api/quests/%d/progress", q.ID), nil)
	var progress map[string]int
	decode(t, w, &progress)
	if progress["progress"] != 25 {
		t.Errorf("progress = %d, want 25", progress["progress"])
	}

	// Cascade: deleting the quest kills its stages.
	if w = do(t, h, http.MethodDelete, fmt.Sprintf("/api/quests/%d", q.ID), nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete quest: status %d", w.Code)
	}
	w = do(t, h, http.MethodPut, fmt.Sprintf("/api/quests/%d/stages/%d", q.ID, stageIDs[1]), map[string]bool{"completed": true})
	if w.Code != http.StatusNotFound {
		t.Errorf("stage after cascade: status %d, want 404", w.Code)
	}
}

// ─── Reward Flow ────────────────────────────────────────────────────────────

func TestBuyRewardOverHTTP(t *testing.T) {
	h := setupServer(t)

	// Earn 5 points the honest way.
	w := do(t, h, http.MethodPost, "/api/todos/", map[string]interface{}{
		"date": "2026-08-31", "title": "big task", "difficulty": "hard", "kind": "normal",
	})
	var td struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &td)
	do(t, h, http.MethodPost, fmt.Sprintf("/api/todos/%d/finalize", td.ID), map[string]string{"status": "done"})

	w = do(t, h, http.MethodPost, "/api/rewards/", map[string]interface{}{"title": "ice cream", "points_required": 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("create reward: status %d", w.Code)
	}
	var rw struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &rw)

	w = do(t, h, http.MethodPost, fmt.Sprintf("/api/rewards/%d/buy", rw.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("buy: status %d: %s", w.Code, w.Body.String())
	}
	var bought map[string]int
	decode(t, w, &bought)
	if bought["remaining_points"] != 2 {
		t.Errorf("remaining = %d, want 2", bought["remaining_points"])
	}

	// Second buy exceeds the remaining balance.
	if w = do(t, h, http.MethodPost, fmt.Sprintf("/api/rewards/%d/buy", rw.ID), nil); w.Code != http.StatusBadRequest {
		t.Errorf("overspend: status %d, want 400", w.Code)
	}
}

// ─── Law Flow ───────────────────────────────────────────────────────────────

func TestCreateLawsOverHTTP(t *testing.T) {
	h := setupServer(t)

	small := make([]map[string]interface{}, 9)
	for i := range small {
		small[i] = map[string]interface{}{"title": "t", "prompt": "p", "penalty_points": 1}
	}
	if w := do(t, h, http.MethodPost, "/api/laws/", small); w.Code != http.StatusBadRequest {
		t.Errorf("9 items: status %d, want 400", w.Code)
	}

	items := make([]map[string]interface{}, 10)
	for i := range items {
		items[i] = map[string]interface{}{"title": "t", "prompt": "p", "penalty_points": 1}
	}
	items[0]["title"] = ""
	items[5]["prompt"] = ""

	w := do(t, h, http.MethodPost, "/api/laws/", items)
	if w.Code != http.StatusCreated {
		t.Fatalf("10 items: status %d: %s", w.Code, w.Body.String())
	}
	var created []map[string]interface{}
	decode(t, w, &created)
	if len(created) != 8 {
		t.Errorf("created = %d laws, want 8", len(created))
	}
}

// ─── Identity ───────────────────────────────────────────────────────────────

func TestIdentityHeaderSeparatesUsers(t *testing.T) {
	h := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/todos/", bytes.NewBufferString(
		`{"date":"2026-08-31","title":"mine","difficulty":"easy","kind":"normal"}`))
	req.Header.Set("X-User-ID", "7")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create as user 7: status %d", w.Code)
	}

	// Default identity (user 1) sees nothing for that date.
	lw := do(t, h, http.MethodGet, "/api/todos/?date=2026-08-31", nil)
	var todos []interface{}
	decode(t, lw, &todos)
	if len(todos) != 0 {
		t.Errorf("user 1 sees %d to-dos, want 0", len(todos))
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/points", nil)
	bad.Header.Set("X-User-ID", "abc")
	bw := httptest.NewRecorder()
	h.ServeHTTP(bw, bad)
	if bw.Code != http.StatusBadRequest {
		t.Errorf("bad header: status %d, want 400", bw.Code)
	}
}

func TestHealth(t *testing.T) {
	h := setupServer(t)
	w := do(t, h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: status %d", w.Code)
	}
}
