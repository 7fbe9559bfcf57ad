// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds shared domain constants and small value types
// used across handlers, middleware and the store.
package model

// User roles. Registration always produces an editor; only the seeded
// admin (or a manually promoted row) can publish news.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// SessionUser is the identity snapshot placed in the session at login:
// id, username and role exactly as stored at that moment. The role is
// not re-checked against the database until the next login.
type SessionUser struct {
	ID       int64
	Username string
	Role     string
}

// IsAdmin reports whether the session identity carries the admin role.
func (u SessionUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}
