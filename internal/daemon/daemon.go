// Package daemon wires the services together and runs the HTTP server.
package daemon

import (
	"fmt"
	"log"
	"net/http"

	"github.com/lql-project/lql/internal/api"
	"github.com/lql-project/lql/internal/app/diary"
	"github.com/lql-project/lql/internal/app/law"
	"github.com/lql-project/lql/internal/app/ledger"
	"github.com/lql-project/lql/internal/app/notify"
	"github.com/lql-project/lql/internal/app/quest"
	"github.com/lql-project/lql/internal/app/reward"
	"github.com/lql-project/lql/internal/app/todo"
	"github.com/lql-project/lql/internal/infra/gemini"
	"github.com/lql-project/lql/internal/infra/sqlite"
)

// Run assembles the application from cfg and serves HTTP until the
// listener fails. All state lives in memory; the SQLite archive, when
// enabled, is an append-only mirror of the ledger.
func Run(cfg Config) error {
	points := ledger.New()

	if cfg.Archive.Enabled {
		archive, err := sqlite.OpenArchive(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("open ledger archive: %w", err)
		}
		defer archive.Close()
		points.SetArchive(archive)
		log.Printf("daemon: ledger archive at %s", cfg.Archive.Path)
	}

	laws := law.NewService()

	var evaluator diary.Evaluator
	var improver diary.Improver
	if cfg.Gemini.APIKey != "" {
		client := gemini.NewClient(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Gemini.Timeout(),
		})
		evaluator = client
		improver = client
		log.Printf("daemon: gemini collaborator enabled (model %s)", cfg.Gemini.Model)
	} else {
		log.Print("daemon: no gemini API key, diary runs without evaluation")
	}

	srv := api.NewServer(
		todo.NewService(points),
		quest.NewService(),
		reward.NewService(points),
		laws,
		diary.NewService(laws, evaluator, improver),
		notify.NewService(),
	)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}

	addr := cfg.ListenAddr()
	log.Printf("daemon: listening on %s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
