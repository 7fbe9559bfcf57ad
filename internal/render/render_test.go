// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unisite/internal/session"
	"unisite/web"
)

func testRenderer(t *testing.T) (*Renderer, *scs.SessionManager) {
	t.Helper()

	sm := scs.New()
	sm.Lifetime = 24 * time.Hour

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	r, err := New(Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	require.NoError(t, err)

	return r, sm
}

func TestNewParsesAllPages(t *testing.T) {
	r, _ := testRenderer(t)

	pages := []string{
		"home", "news_list", "news_detail", "search_results",
		"login", "register", "add_news",
		"about", "contacts", "svedeniya", "faculties",
		"education", "documents", "admission", "accessibility", "notfound",
	}
	for _, name := range pages {
		assert.Contains(t, r.templates, name, "template %q should be parsed", name)
	}
}

func TestTruncateIsRuneAware(t *testing.T) {
	r, _ := testRenderer(t)
	truncate, ok := r.templateFuncs()["truncate"].(func(string, int) string)
	require.True(t, ok)

	assert.Equal(t, "Новости уни...", truncate("Новости университета", 11))
	assert.Equal(t, "short", truncate("short", 20))
	assert.True(t, strings.HasSuffix(truncate("Объявление о начале приёма", 10), "..."))
}

func TestMarkdownIsSanitized(t *testing.T) {
	r, _ := testRenderer(t)

	out := string(r.renderMarkdown("**Важно** <script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>Важно</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderPopsFlashOnce(t *testing.T) {
	r, sm := testRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx, err := sm.Load(req.Context(), "")
	require.NoError(t, err)
	req = req.WithContext(ctx)

	r.SetFlash(req, "Новость опубликована.", "success")

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, req, "home", TemplateData{Title: "Главная"}))
	assert.Contains(t, w.Body.String(), "Новость опубликована.")
	assert.Contains(t, w.Body.String(), "alert-success")

	w = httptest.NewRecorder()
	require.NoError(t, r.Render(w, req, "home", TemplateData{Title: "Главная"}))
	assert.NotContains(t, w.Body.String(), "Новость опубликована.")
}

func TestRenderShowsSignedInUser(t *testing.T) {
	r, sm := testRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx, err := sm.Load(req.Context(), "")
	require.NoError(t, err)
	req = req.WithContext(ctx)

	sm.Put(req.Context(), session.KeyUserID, int64(1))
	sm.Put(req.Context(), session.KeyUsername, "admin")
	sm.Put(req.Context(), session.KeyRole, "admin")

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, req, "home", TemplateData{Title: "Главная"}))

	body := w.Body.String()
	assert.Contains(t, body, "admin")
	assert.Contains(t, body, "Выйти")
	assert.NotContains(t, body, "Регистрация</a>")
}

func TestRenderUnknownTemplateErrors(t *testing.T) {
	r, sm := testRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx, err := sm.Load(req.Context(), "")
	require.NoError(t, err)
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	assert.Error(t, r.Render(w, req, "no_such_page", TemplateData{}))
}
