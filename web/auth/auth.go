// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package auth protects the run-trigger endpoint with HTTP basic
// authentication against a bcrypt password hash. Fetching results stays
// open; only triggering work requires credentials.
package auth

import (
	"crypto/subtle"
	"net/http"
)

// Guard holds the expected credentials. A zero Guard disables
// authentication, which keeps local single-tenant use friction-free.
type Guard struct {
	Username     string
	PasswordHash string // bcrypt hash; empty means auth is disabled
}

// Enabled reports whether the guard enforces credentials.
func (g Guard) Enabled() bool {
	return g.PasswordHash != ""
}

// RequireAuth wraps a handler with basic-auth enforcement. When the guard
// is disabled the handler runs untouched.
func (g Guard) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	if !g.Enabled() {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(username), []byte(g.Username)) != 1 ||
			!CheckPassword(password, g.PasswordHash) {
			w.Header().Set("WWW-Authenticate", `Basic realm="visrpt"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
