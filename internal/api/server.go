// Package api provides the HTTP server for LQL. It is a thin glue layer:
// request parsing, identity extraction, and error mapping. All business
// rules live in the app services.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lql-project/lql/internal/app/diary"
	"github.com/lql-project/lql/internal/app/law"
	"github.com/lql-project/lql/internal/app/notify"
	"github.com/lql-project/lql/internal/app/quest"
	"github.com/lql-project/lql/internal/app/reward"
	"github.com/lql-project/lql/internal/app/todo"
	"github.com/lql-project/lql/internal/domain"
)

// Server is the LQL HTTP API server.
type Server struct {
	todos          *todo.Service
	quests         *quest.Service
	rewards        *reward.Service
	laws           *law.Service
	diary          *diary.Service
	notifications  *notify.Service
	metricsEnabled bool
}

// NewServer creates an API server over the given services.
func NewServer(todos *todo.Service, quests *quest.Service, rewards *reward.Service, laws *law.Service, d *diary.Service, n *notify.Service) *Server {
	return &Server{
		todos:         todos,
		quests:        quests,
		rewards:       rewards,
		laws:          laws,
		diary:         d,
		notifications: n,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)
	r.Use(identityMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/todos", func(r chi.Router) {
			r.Post("/", s.handleCreateToDo)
			r.Get("/", s.handleListToDos)
			r.Put("/{id}", s.handleUpdateToDo)
			r.Delete("/{id}", s.handleDeleteToDo)
			r.Post("/{id}/finalize", s.handleFinalizeToDo)
		})
		r.Get("/points", s.handleGetPoints)

		r.Route("/quests", func(r chi.Router) {
			r.Post("/", s.handleCreateQuest)
			r.Get("/", s.handleListQuests)
			r.Get("/{id}", s.handleGetQuest)
			r.Put("/{id}", s.handleUpdateQuest)
			r.Delete("/{id}", s.handleDeleteQuest)
			r.Get("/{id}/progress", s.handleQuestProgress)
			r.Post("/{id}/stages", s.handleAddStage)
			r.Put("/{id}/stages/{stageID}", s.handleUpdateStage)
			r.Delete("/{id}/stages/{stageID}", s.handleDeleteStage)
		})
		r.Get("/goals", s.handleListGoals)

		r.Route("/rewards", func(r chi.Router) {
			r.Post("/", s.handleCreateReward)
			r.Get("/", s.handleListRewards)
			r.Post("/{id}/buy", s.handleBuyReward)
		})

		r.Route("/laws", func(r chi.Router) {
			r.Post("/", s.handleCreateLaws)
			r.Get("/", s.handleListLaws)
		})

		r.Route("/diary", func(r chi.Router) {
			r.Post("/", s.handleCreateDiaryEntry)
			r.Get("/", s.handleListDiaryEntries)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/", s.handleScheduleNotification)
			r.Get("/", s.handleListNotifications)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Identity ───────────────────────────────────────────────────────────────

type ctxKey int

const userIDKey ctxKey = 0

// identityMiddleware trusts the X-User-ID header as the caller's identity.
// Authentication lives in front of this service; without the header the
// request runs as user 1, matching the single-user default.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := int64(1)
		if raw := r.Header.Get("X-User-ID"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeError(w, http.StatusBadRequest, "invalid X-User-ID header")
				return
			}
			userID = id
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func userID(r *http.Request) int64 {
	if id, ok := r.Context().Value(userIDKey).(int64); ok {
		return id
	}
	return 1
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps engine errors to status codes. Every engine error
// is a synchronous validation outcome, so anything recognized is a 4xx.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidBatchSize),
		errors.Is(err, domain.ErrInsufficientPoints):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for the local web UI.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
