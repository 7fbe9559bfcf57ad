// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"unisite/internal/geoip"
	"unisite/internal/middleware"
	"unisite/internal/render"
	"unisite/internal/store"
	"unisite/internal/util"
)

// FeedbackHandler handles the contacts page and its feedback form.
type FeedbackHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	geo      *geoip.Lookup
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(db *sql.DB, renderer *render.Renderer, geo *geoip.Lookup) *FeedbackHandler {
	return &FeedbackHandler{
		queries:  store.New(db),
		renderer: renderer,
		geo:      geo,
	}
}

// ContactsForm renders the contacts page with the feedback form.
func (h *FeedbackHandler) ContactsForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "contacts", render.TemplateData{
		Title: "Контакты",
	}); err != nil {
		logAndInternalError(w, "failed to render contacts page", "error", err)
	}
}

// SubmitFeedback persists a feedback message from the contacts form.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContacts) {
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	message := strings.TrimSpace(r.FormValue("message"))

	if fullName == "" || email == "" || subject == "" || message == "" {
		flashError(w, r, h.renderer, redirectContacts, "Заполните все обязательные поля.")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, redirectContacts, "Укажите корректный адрес электронной почты.")
		return
	}

	clientIP := middleware.GetClientIP(r)
	country := h.lookupCountry(clientIP)

	_, err := h.queries.CreateFeedback(r.Context(), store.CreateFeedbackParams{
		FullName:  fullName,
		Email:     email,
		Phone:     util.NullString(phone),
		Subject:   subject,
		Message:   message,
		IPAddress: util.NullString(clientIP),
		Country:   util.NullString(country),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		logAndInternalError(w, "failed to save feedback", "error", err)
		return
	}

	slog.Info("feedback received", "subject", subject)
	flashSuccess(w, r, h.renderer, redirectContacts, "Сообщение отправлено. Мы свяжемся с вами в ближайшее время.")
}

func (h *FeedbackHandler) lookupCountry(clientIP string) string {
	if h.geo == nil {
		return ""
	}
	host := clientIP
	if h, _, err := net.SplitHostPort(clientIP); err == nil {
		host = h
	}
	return h.geo.LookupCountry(host)
}
