// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package handlers implements the reporting surface: fetch the latest
// summary, trigger a fresh pipeline run, and list run history.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/mdhender/visrpt/model"
	"github.com/mdhender/visrpt/pipelines/stages"
	"github.com/spf13/afero"
)

// RunStore defines the store operations needed by the handlers.
type RunStore interface {
	InsertRun(ctx context.Context, run *model.Run, defects []model.Defect) error
	LastRun(ctx context.Context) (*model.Run, error)
	Runs(ctx context.Context, limit int) ([]*model.Run, error)
}

// Runner defines the pipeline entry point the trigger endpoint calls.
type Runner interface {
	Run(ctx context.Context, cfg stages.RunConfig) (*stages.RunResult, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store  RunStore
	runner Runner
	cfg    stages.RunConfig
	fs     afero.Fs

	// The pipeline has no locking of its own; concurrent triggers against
	// the same output paths must be serialized here.
	mu sync.Mutex
}

// New creates Handlers around the given store, runner, and run
// configuration.
func New(store RunStore, runner Runner, cfg stages.RunConfig) *Handlers {
	return &Handlers{
		store:  store,
		runner: runner,
		cfg:    cfg,
		fs:     afero.NewOsFs(),
	}
}

// SetFS sets the filesystem for testing.
func (h *Handlers) SetFS(fs afero.Fs) {
	h.fs = fs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"error": detail})
}
