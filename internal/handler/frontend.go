// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"unisite/internal/render"
	"unisite/internal/store"
)

const (
	newsCategorySlug = "news"
	newsCategoryName = "Новости"
	homeFeedLimit    = 5
)

// FrontendHandler serves the public pages.
type FrontendHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// newsFeed returns published news items, newest first. A missing news
// category yields an empty feed, not an error.
func (h *FrontendHandler) newsFeed(r *http.Request, limit int64) ([]store.Content, error) {
	category, err := h.queries.GetCategoryBySlug(r.Context(), newsCategorySlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return h.queries.ListPublishedByCategory(r.Context(), store.ListPublishedByCategoryParams{
		CategoryID: category.ID,
		Limit:      limit,
	})
}

// Home renders the landing page with the five latest news items.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	items, err := h.newsFeed(r, homeFeedLimit)
	if err != nil {
		logAndInternalError(w, "failed to load home feed", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "home", render.TemplateData{
		Title: "Главная",
		Data:  items,
	}); err != nil {
		logAndInternalError(w, "failed to render home page", "error", err)
	}
}

// NewsList renders all published news, unbounded.
func (h *FrontendHandler) NewsList(w http.ResponseWriter, r *http.Request) {
	items, err := h.newsFeed(r, 0)
	if err != nil {
		logAndInternalError(w, "failed to load news list", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "news_list", render.TemplateData{
		Title: "Новости",
		Data:  items,
	}); err != nil {
		logAndInternalError(w, "failed to render news list", "error", err)
	}
}

// newsDetailData carries the item plus resolved author display name.
type newsDetailData struct {
	Item       store.Content
	AuthorName string
}

// NewsDetail renders a single published item. Missing IDs get a 404;
// unpublished items redirect to the listing with a notice, so a direct
// link never exposes them.
func (h *FrontendHandler) NewsDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	item, err := h.queries.GetContentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load news item", "error", err, "id", id)
		return
	}

	if !item.IsPublished {
		flashAndRedirect(w, r, h.renderer, redirectNews, "Эта публикация недоступна.", "warning")
		return
	}

	data := newsDetailData{Item: item}
	if item.AuthorID.Valid {
		if author, err := h.queries.GetUserByID(r.Context(), item.AuthorID.Int64); err == nil {
			data.AuthorName = author.Username
		}
	}

	if err := h.renderer.Render(w, r, "news_detail", render.TemplateData{
		Title: item.Title,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render news item", "error", err, "id", id)
	}
}

// searchResultsData feeds the search results template.
type searchResultsData struct {
	Query   string
	Results []store.Content
	Count   int
}

// Search matches published items whose title or body contains the
// query as a case-insensitive substring. SQLite LIKE is ASCII-only
// case-insensitive, so the filter runs in Go to cover Cyrillic.
func (h *FrontendHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Redirect(w, r, redirectNews, http.StatusSeeOther)
		return
	}

	items, err := h.queries.ListPublished(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load content for search", "error", err)
		return
	}

	needle := strings.ToLower(query)
	var results []store.Content
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Body), needle) {
			results = append(results, item)
		}
	}

	if err := h.renderer.Render(w, r, "search_results", render.TemplateData{
		Title: "Поиск",
		Data: searchResultsData{
			Query:   query,
			Results: results,
			Count:   len(results),
		},
	}); err != nil {
		logAndInternalError(w, "failed to render search results", "error", err)
	}
}

// About renders the about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderStatic(w, r, "about", "Об университете")
}

// Documents renders the documents page.
func (h *FrontendHandler) Documents(w http.ResponseWriter, r *http.Request) {
	h.renderStatic(w, r, "documents", "Документы")
}

// Accessibility renders the accessibility statement.
func (h *FrontendHandler) Accessibility(w http.ResponseWriter, r *http.Request) {
	h.renderStatic(w, r, "accessibility", "Версия для слабовидящих")
}

func (h *FrontendHandler) renderStatic(w http.ResponseWriter, r *http.Request, template, title string) {
	if err := h.renderer.Render(w, r, template, render.TemplateData{Title: title}); err != nil {
		logAndInternalError(w, "failed to render page", "template", template, "error", err)
	}
}

// sectionWithItems pairs a mandated information section with its
// published entries.
type sectionWithItems struct {
	Section store.OrganizationSection
	Items   []store.OrganizationItem
}

// Svedeniya renders the mandated information sections.
func (h *FrontendHandler) Svedeniya(w http.ResponseWriter, r *http.Request) {
	sections, err := h.queries.ListOrganizationSections(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load organization sections", "error", err)
		return
	}

	data := make([]sectionWithItems, 0, len(sections))
	for _, s := range sections {
		items, err := h.queries.ListOrganizationItems(r.Context(), s.ID)
		if err != nil {
			slog.Error("failed to load section items", "section", s.Code, "error", err)
			continue
		}
		data = append(data, sectionWithItems{Section: s, Items: items})
	}

	if err := h.renderer.Render(w, r, "svedeniya", render.TemplateData{
		Title: "Сведения об образовательной организации",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render svedeniya page", "error", err)
	}
}

// facultyWithPrograms pairs a faculty with its active programs.
type facultyWithPrograms struct {
	Faculty  store.Faculty
	Programs []store.EducationalProgram
}

// Faculties renders the faculty directory with programs.
func (h *FrontendHandler) Faculties(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.queries.ListFaculties(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load faculties", "error", err)
		return
	}

	data := make([]facultyWithPrograms, 0, len(faculties))
	for _, f := range faculties {
		programs, err := h.queries.ListProgramsByFaculty(r.Context(), f.ID)
		if err != nil {
			slog.Error("failed to load faculty programs", "faculty_id", f.ID, "error", err)
		}
		data = append(data, facultyWithPrograms{Faculty: f, Programs: programs})
	}

	if err := h.renderer.Render(w, r, "faculties", render.TemplateData{
		Title: "Факультеты",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render faculties page", "error", err)
	}
}

// Education renders the active program catalog sorted by code.
func (h *FrontendHandler) Education(w http.ResponseWriter, r *http.Request) {
	programs, err := h.queries.ListActivePrograms(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load programs", "error", err)
		return
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].Code < programs[j].Code })

	if err := h.renderer.Render(w, r, "education", render.TemplateData{
		Title: "Образование",
		Data:  programs,
	}); err != nil {
		logAndInternalError(w, "failed to render education page", "error", err)
	}
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.RenderStatus(w, r, http.StatusNotFound, "notfound", render.TemplateData{
		Title: "Страница не найдена",
	}); err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}
