// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request hardening.
package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"unisite/internal/model"
	"unisite/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the signed-in user snapshot.
const ContextKeyUser ContextKey = "user"

// LoadUser copies the session identity into the request context. The
// username and role are the snapshot taken at login; a role change
// takes effect on the next login.
func LoadUser(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user := model.SessionUser{
				ID:       userID,
				Username: sm.GetString(r.Context(), session.KeyUsername),
				Role:     sm.GetString(r.Context(), session.KeyRole),
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the signed-in user from the request context, or
// nil for anonymous requests.
func GetUser(r *http.Request) *model.SessionUser {
	user, ok := r.Context().Value(ContextKeyUser).(model.SessionUser)
	if !ok {
		return nil
	}
	return &user
}

// RequireAuth redirects anonymous requests to the login page with a
// flash message.
func RequireAuth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r) == nil {
				sm.Put(r.Context(), session.KeyFlash, "Для доступа к этой странице необходимо войти в систему.")
				sm.Put(r.Context(), session.KeyFlashType, "warning")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects signed-in non-admin users with a flash redirect
// to the home page. Anonymous users go to login first, so this must be
// stacked after RequireAuth.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !user.IsAdmin() {
				sm.Put(r.Context(), session.KeyFlash, "У вас нет прав для выполнения этого действия.")
				sm.Put(r.Context(), session.KeyFlashType, "danger")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP extracts the client IP, preferring reverse-proxy headers.
func GetClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
