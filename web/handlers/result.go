// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"net/http"
	"os"

	"github.com/spf13/afero"
)

// Result serves the latest summary. The newest recorded run wins; when
// the store is empty (e.g. only CLI runs have happened) it falls back to
// the summary artifact on disk. With neither, the client is told to run
// the pipeline first.
func (h *Handlers) Result(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	run, err := h.store.LastRun(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run != nil {
		writeJSON(w, http.StatusOK, run.Summary())
		return
	}

	data, err := afero.ReadFile(h.fs, h.cfg.SummaryPath)
	if os.IsNotExist(err) {
		writeError(w, http.StatusNotFound, "summary not found; run the pipeline first")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
