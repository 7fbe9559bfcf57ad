// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"

	"unisite/internal/auth"
	"unisite/internal/middleware"
	"unisite/internal/model"
	"unisite/internal/render"
	"unisite/internal/session"
	"unisite/internal/store"
	"unisite/internal/util"
)

const minPasswordLength = 8

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// RegisterForm renders the registration page. Signed-in users are sent home.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "register", render.TemplateData{
		Title: "Регистрация",
	}); err != nil {
		logAndInternalError(w, "failed to render register page", "error", err)
	}
}

// registerFormData is re-shown with the collected errors so the user
// does not retype the username.
type registerFormData struct {
	Username string
	Errors   []string
}

// Register handles the registration form. Validation failures are
// collected and reported together, not one at a time.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	// The password is trimmed like the other fields, so surrounding
	// whitespace cannot pad one past the minimum length.
	username := strings.TrimSpace(r.FormValue("username"))
	password := strings.TrimSpace(r.FormValue("password"))
	passwordConfirm := strings.TrimSpace(r.FormValue("password_confirm"))

	var formErrors []string
	if username == "" {
		formErrors = append(formErrors, "Укажите имя пользователя.")
	}
	if password == "" {
		formErrors = append(formErrors, "Укажите пароль.")
	}
	if password != passwordConfirm {
		formErrors = append(formErrors, "Пароли не совпадают.")
	}
	if len(password) < minPasswordLength {
		formErrors = append(formErrors, fmt.Sprintf("Пароль должен содержать не менее %d символов.", minPasswordLength))
	}
	if username != "" {
		n, err := h.queries.CountUsersByUsername(r.Context(), username)
		if err != nil {
			logAndInternalError(w, "failed to check username availability", "error", err)
			return
		}
		if n > 0 {
			formErrors = append(formErrors, "Пользователь с таким именем уже существует.")
		}
	}

	if len(formErrors) > 0 {
		if err := h.renderer.Render(w, r, "register", render.TemplateData{
			Title: "Регистрация",
			Data:  registerFormData{Username: username, Errors: formErrors},
		}); err != nil {
			logAndInternalError(w, "failed to render register page", "error", err)
		}
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	// Self-registration always produces an editor. Admin accounts are
	// created by the seed only.
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleEditor,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// A racing registration can win the unique index between the
		// availability check and the insert.
		slog.Warn("registration insert failed", "username", username, "error", err)
		if renderErr := h.renderer.Render(w, r, "register", render.TemplateData{
			Title: "Регистрация",
			Data:  registerFormData{Username: username, Errors: []string{"Пользователь с таким именем уже существует."}},
		}); renderErr != nil {
			logAndInternalError(w, "failed to render register page", "error", renderErr)
		}
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	h.logAuthEvent(r, model.EventLevelInfo, "User registered", user.ID)

	flashSuccess(w, r, h.renderer, redirectLogin, "Регистрация прошла успешно. Теперь вы можете войти.")
}

// LoginForm renders the login page. Signed-in users are sent home.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "login", render.TemplateData{
		Title: "Вход",
	}); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// loginFailedMessage is deliberately identical for an unknown username
// and a wrong password.
const loginFailedMessage = "Неверное имя пользователя или пароль."

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := strings.TrimSpace(r.FormValue("password"))

	if username == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Укажите имя пользователя и пароль.")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			slog.Warn("login attempt on locked account", "username", username)
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Учётная запись временно заблокирована. Повторите через %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
		}
		// Failed attempts are recorded for unknown usernames too, so
		// enumeration costs the same as guessing passwords.
		if h.loginProtection != nil {
			h.loginProtection.RecordFailedAttempt(username)
		}
		flashError(w, r, h.renderer, redirectLogin, loginFailedMessage)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectLogin, loginFailedMessage)
		return
	}
	if !valid {
		h.logAuthEvent(r, model.EventLevelWarning, "Login failed: invalid password", user.ID)
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
				flashError(w, r, h.renderer, redirectLogin,
					fmt.Sprintf("Слишком много неудачных попыток. Учётная запись заблокирована на %s.", formatDuration(lockDuration)))
				return
			}
		}
		flashError(w, r, h.renderer, redirectLogin, loginFailedMessage)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// New session token on privilege change prevents fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	// The role is snapshotted here. A role change in the database takes
	// effect on the user's next login.
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)
	h.sessionManager.Put(r.Context(), session.KeyUsername, user.Username)
	h.sessionManager.Put(r.Context(), session.KeyRole, user.Role)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	h.logAuthEvent(r, model.EventLevelInfo, "User logged in", user.ID)

	flashSuccess(w, r, h.renderer, redirectHome, fmt.Sprintf("Добро пожаловать, %s!", user.Username))
}

// Logout clears the session and redirects home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)

	if userID > 0 {
		h.logAuthEvent(r, model.EventLevelInfo, "User logged out", userID)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	flashAndRedirect(w, r, h.renderer, redirectHome, "Вы вышли из системы.", "info")
}

// logAuthEvent writes an auth event with client metadata. Failures are
// logged and swallowed: auditing never blocks the auth flow.
func (h *AuthHandler) logAuthEvent(r *http.Request, level, message string, userID int64) {
	ua := useragent.Parse(r.UserAgent())
	metadata := fmt.Sprintf(`{"browser":%q,"os":%q,"mobile":%t}`, ua.Name, ua.OS, ua.Mobile)

	err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Level:     level,
		Category:  model.EventCategoryAuth,
		Message:   message,
		UserID:    sql.NullInt64{Int64: userID, Valid: userID > 0},
		IPAddress: util.NullString(middleware.GetClientIP(r)),
		URL:       util.NullString(r.URL.Path),
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to record auth event", "error", err)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "1 мин"
	}
	if d < time.Hour {
		return fmt.Sprintf("%d мин", int(d.Minutes()))
	}
	return fmt.Sprintf("%d ч %d мин", int(d.Hours()), int(d.Minutes())%60)
}
