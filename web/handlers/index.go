// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"fmt"
	"net/http"
)

// Fallback serves a plain landing page when no built frontend is
// available. The API stays usable either way.
func (h *Handlers) Fallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, `<html>
  <head><title>visrpt</title></head>
  <body style="font-family: sans-serif; padding: 24px;">
    <h1>Frontend not built</h1>
    <p>The API is available:</p>
    <ul>
      <li>GET /api/result &mdash; latest summary</li>
      <li>POST /api/run &mdash; trigger a pipeline run</li>
      <li>GET /api/runs &mdash; run history</li>
    </ul>
  </body>
</html>
`)
}
