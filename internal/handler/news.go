// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"unisite/internal/middleware"
	"unisite/internal/model"
	"unisite/internal/render"
	"unisite/internal/store"
	"unisite/internal/upload"
	"unisite/internal/util"
)

// NewsHandler handles the admin publishing flow.
type NewsHandler struct {
	queries       *store.Queries
	renderer      *render.Renderer
	images        *upload.ImageStore
	maxUploadSize int64
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(db *sql.DB, renderer *render.Renderer, images *upload.ImageStore, maxUploadSize int64) *NewsHandler {
	return &NewsHandler{
		queries:       store.New(db),
		renderer:      renderer,
		images:        images,
		maxUploadSize: maxUploadSize,
	}
}

// AddForm renders the publishing form. Role gating happens in the
// middleware stack, not here.
func (h *NewsHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "add_news", render.TemplateData{
		Title: "Добавить новость",
	}); err != nil {
		logAndInternalError(w, "failed to render add news form", "error", err)
	}
}

// Add persists a new published news item authored by the signed-in
// admin. The news category is created on first use.
func (h *NewsHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirectAddNews, "Не удалось обработать форму. Возможно, файл слишком большой.")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	body := strings.TrimSpace(r.FormValue("content"))

	if title == "" || body == "" {
		flashError(w, r, h.renderer, redirectAddNews, "Заполните заголовок и текст новости.")
		return
	}

	category, err := h.queries.GetOrCreateCategoryBySlug(r.Context(), newsCategorySlug, newsCategoryName)
	if err != nil {
		logAndInternalError(w, "failed to resolve news category", "error", err)
		return
	}

	// A missing file or a disallowed extension silently produces a
	// text-only item.
	imagePath := h.saveImage(r)

	now := time.Now().UTC()
	item, err := h.queries.CreateContent(r.Context(), store.CreateContentParams{
		Title:       title,
		Body:        body,
		AuthorID:    util.NullInt64(user.ID),
		CategoryID:  util.NullInt64(category.ID),
		IsPublished: true,
		ImagePath:   imagePath,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create news item", "error", err)
		return
	}

	slog.Info("news published", "category", "content", "content_id", item.ID, "author_id", user.ID)
	h.logContentEvent(r, item.ID, user.ID)

	flashSuccess(w, r, h.renderer, redirectNews, "Новость опубликована.")
}

func (h *NewsHandler) saveImage(r *http.Request) sql.NullString {
	file, header, err := r.FormFile("image")
	if err != nil {
		return sql.NullString{}
	}
	defer func() { _ = file.Close() }()

	name, err := h.images.Save(file, header)
	if err != nil {
		if !errors.Is(err, upload.ErrExtensionNotAllowed) {
			slog.Error("failed to store news image", "error", err)
		}
		return sql.NullString{}
	}
	return util.NullString(name)
}

func (h *NewsHandler) logContentEvent(r *http.Request, contentID, userID int64) {
	err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryContent,
		Message:   "News item published",
		UserID:    util.NullInt64(userID),
		IPAddress: util.NullString(middleware.GetClientIP(r)),
		URL:       util.NullString(r.URL.Path),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to record content event", "error", err)
	}
}
