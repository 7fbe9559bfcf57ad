// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"unisite/internal/middleware"
	"unisite/internal/model"
	"unisite/internal/store"
	"unisite/internal/upload"
)

const testMaxUploadSize = 16 << 20

func testImageStore(t *testing.T) *upload.ImageStore {
	t.Helper()
	images, err := upload.NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create image store: %v", err)
	}
	return images
}

// multipartRequest builds a POST with form fields and an optional file part.
func multipartRequest(t *testing.T, sm *scs.SessionManager, target string, fields map[string]string, fileName string, fileData []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("writing form field: %v", err)
		}
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("image", fileName)
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("writing form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

func TestAddNewsCreatesPublishedItem(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewNewsHandler(db, testRenderer(t, sm), testImageStore(t), testMaxUploadSize)
	admin := createTestUser(t, db, "admin", "admin123admin", model.RoleAdmin)

	r := multipartRequest(t, sm, RouteAddNews, map[string]string{
		"title":   "День открытых дверей",
		"content": "Приглашаем абитуриентов и их родителей.",
	}, "", nil)
	r = requestWithUser(r, admin)
	w := httptest.NewRecorder()
	h.Add(w, r)

	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteNews)

	queries := store.New(db)
	n, err := queries.CountContent(context.Background())
	if err != nil {
		t.Fatalf("CountContent: %v", err)
	}
	if n != 1 {
		t.Fatalf("content count = %d; want 1", n)
	}

	category, err := queries.GetCategoryBySlug(context.Background(), newsCategorySlug)
	if err != nil {
		t.Fatalf("news category was not created: %v", err)
	}

	items, err := queries.ListPublishedByCategory(context.Background(), store.ListPublishedByCategoryParams{
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("ListPublishedByCategory: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("published item count = %d; want 1", len(items))
	}
	item := items[0]
	if !item.IsPublished {
		t.Error("item should be published immediately")
	}
	if !item.AuthorID.Valid || item.AuthorID.Int64 != admin.ID {
		t.Errorf("author_id = %v; want %d", item.AuthorID, admin.ID)
	}
	if item.ImagePath.Valid {
		t.Error("item without an upload should have no image path")
	}
}

// TestPublishReadSearchFlow walks the whole publishing path: the
// seeded admin signs in, publishes through the form, and the item
// comes back through the detail page and search.
func TestPublishReadSearchFlow(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)

	if err := store.Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	authHandler := NewAuthHandler(db, renderer, sm, nil)
	newsHandler := NewNewsHandler(db, renderer, testImageStore(t), testMaxUploadSize)
	frontendHandler := NewFrontendHandler(db, renderer)

	loginReq := postForm(sm, RouteLogin, url.Values{
		"username": {"admin"},
		"password": {"admin123"},
	})
	w := httptest.NewRecorder()
	authHandler.Login(w, loginReq)
	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteRoot)

	addReq := multipartRequest(t, sm, RouteAddNews, map[string]string{
		"title":   "Городская олимпиада по математике",
		"content": "Студенты университета заняли три призовых места.",
	}, "", nil)
	// Same session as the login above, identity resolved by LoadUser.
	addReq = addReq.WithContext(loginReq.Context())
	w = httptest.NewRecorder()
	middleware.LoadUser(sm)(http.HandlerFunc(newsHandler.Add)).ServeHTTP(w, addReq)
	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteNews)

	queries := store.New(db)
	category, err := queries.GetCategoryBySlug(context.Background(), newsCategorySlug)
	if err != nil {
		t.Fatalf("GetCategoryBySlug: %v", err)
	}
	items, err := queries.ListPublishedByCategory(context.Background(), store.ListPublishedByCategoryParams{
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("ListPublishedByCategory: %v", err)
	}
	var published store.Content
	for _, item := range items {
		if item.Title == "Городская олимпиада по математике" {
			published = item
		}
	}
	if published.ID == 0 {
		t.Fatal("published item missing from the news feed")
	}

	id := strconv.FormatInt(published.ID, 10)
	detailReq := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/news/"+id, nil))
	detailReq = requestWithURLParams(detailReq, map[string]string{"id": id})
	w = httptest.NewRecorder()
	frontendHandler.NewsDetail(w, detailReq)
	assertStatus(t, w.Code, http.StatusOK)
	if !strings.Contains(w.Body.String(), "три призовых места") {
		t.Error("detail page should show the published text")
	}

	searchReq := requestWithSession(sm, httptest.NewRequest(http.MethodGet, RouteSearch+"?q=олимпиада", nil))
	w = httptest.NewRecorder()
	frontendHandler.Search(w, searchReq)
	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, "Городская олимпиада по математике") {
		t.Error("search should find the freshly published item")
	}
	if !strings.Contains(body, "найдено: 1") {
		t.Error("search count should be exactly 1")
	}
}

func TestAddNewsEmptyFieldsRejected(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewNewsHandler(db, testRenderer(t, sm), testImageStore(t), testMaxUploadSize)
	admin := createTestUser(t, db, "admin", "admin123admin", model.RoleAdmin)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"empty title", map[string]string{"title": "   ", "content": "Текст."}},
		{"empty text", map[string]string{"title": "Заголовок", "content": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := multipartRequest(t, sm, RouteAddNews, tt.fields, "", nil)
			r = requestWithUser(r, admin)
			w := httptest.NewRecorder()
			h.Add(w, r)

			assertRedirect(t, w.Code, w.Header().Get("Location"), RouteAddNews)
		})
	}

	n, err := store.New(db).CountContent(context.Background())
	if err != nil {
		t.Fatalf("CountContent: %v", err)
	}
	if n != 0 {
		t.Errorf("content count = %d; want 0", n)
	}
}

func TestAddNewsAnonymousRedirectsToLogin(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewNewsHandler(db, testRenderer(t, sm), testImageStore(t), testMaxUploadSize)

	r := multipartRequest(t, sm, RouteAddNews, map[string]string{
		"title":   "Заголовок",
		"content": "Текст.",
	}, "", nil)
	w := httptest.NewRecorder()
	h.Add(w, r)

	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteLogin)

	n, err := store.New(db).CountContent(context.Background())
	if err != nil {
		t.Fatalf("CountContent: %v", err)
	}
	if n != 0 {
		t.Errorf("content count = %d; want 0", n)
	}
}

func TestAddNewsDisallowedImageIgnored(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewNewsHandler(db, testRenderer(t, sm), testImageStore(t), testMaxUploadSize)
	admin := createTestUser(t, db, "admin", "admin123admin", model.RoleAdmin)

	r := multipartRequest(t, sm, RouteAddNews, map[string]string{
		"title":   "Новость с файлом",
		"content": "Текст.",
	}, "payload.exe", []byte("not an image"))
	r = requestWithUser(r, admin)
	w := httptest.NewRecorder()
	h.Add(w, r)

	// The item is still published, just without an image.
	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteNews)

	queries := store.New(db)
	category, err := queries.GetCategoryBySlug(context.Background(), newsCategorySlug)
	if err != nil {
		t.Fatalf("GetCategoryBySlug: %v", err)
	}
	items, err := queries.ListPublishedByCategory(context.Background(), store.ListPublishedByCategoryParams{
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("ListPublishedByCategory: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("published item count = %d; want 1", len(items))
	}
	if items[0].ImagePath.Valid {
		t.Errorf("image path = %q; want none for a disallowed extension", items[0].ImagePath.String)
	}
}
