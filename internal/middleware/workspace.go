// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"wpforge/internal/session"
)

type workspaceKey struct{}

// Current is the workspace loaded for a request together with its
// session ID, which handlers need to save changes back.
type Current struct {
	ID        string
	Workspace *session.Workspace
}

// Workspace loads the caller's workspace into the request context,
// creating a fresh one (and its cookie) when there is none or it expired.
// A broken store answers 503 since every page depends on the workspace.
func Workspace(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ws, err := store.Get(r.Context(), r)
			if err != nil {
				// Unreadable payloads are replaced; backend outages are not.
				slog.Warn("workspace load failed", "error", err)
			}

			if ws == nil {
				ws = session.NewWorkspace()
				id, err = store.Create(r.Context(), w, ws)
				if err != nil {
					slog.Error("workspace create failed", "error", err)
					http.Error(w, "Session storage unavailable", http.StatusServiceUnavailable)
					return
				}
			}

			ctx := context.WithValue(r.Context(), workspaceKey{}, &Current{ID: id, Workspace: ws})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WorkspaceFromCtx returns the workspace loaded by Workspace, or nil when
// the middleware did not run.
func WorkspaceFromCtx(ctx context.Context) *Current {
	cur, _ := ctx.Value(workspaceKey{}).(*Current)
	return cur
}

// WithWorkspace stores cur in ctx. Used by tests and by handlers mounted
// outside the Workspace middleware.
func WithWorkspace(ctx context.Context, cur *Current) context.Context {
	return context.WithValue(ctx, workspaceKey{}, cur)
}
