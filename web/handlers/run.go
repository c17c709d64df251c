// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mdhender/visrpt/model"
)

// TriggerRun executes a fresh pipeline run in-process and records it in
// the store. Runs are serialized; a second trigger blocks until the
// first finishes. A failed run responds with the failure detail and
// commits nothing.
func (h *Handlers) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.runner.Run(r.Context(), h.cfg)
	if err != nil {
		log.Printf("run: pipeline failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	run := &model.Run{
		ID:               uuid.New().String(),
		GeneratedAt:      result.Summary.GeneratedAt,
		MembersPath:      h.cfg.MembersPath,
		VisitsPath:       h.cfg.VisitsPath,
		TotalValidVisits: result.Summary.TotalValidVisits,
		TotalWalkIns:     result.Summary.TotalWalkIns,
		GroupCount:       len(result.Grouped),
		DefectCount:      len(result.Defects),
		CreatedAt:        time.Now().UTC(),
		TopMembers:       result.Summary.TopMembers,
	}
	if err := h.store.InsertRun(r.Context(), run, result.Defects); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("run %s: %d valid visits, %d walk-ins, %d groups, %d defects",
		run.ID, run.TotalValidVisits, run.TotalWalkIns, run.GroupCount, run.DefectCount)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"run_id": run.ID,
	})
}
