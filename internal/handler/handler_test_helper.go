package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"unisite/internal/auth"
	"unisite/internal/middleware"
	"unisite/internal/model"
	"unisite/internal/render"
	"unisite/internal/store"
	"unisite/web"
)

// testDB creates a temporary database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := store.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// testSessionManager creates an in-memory session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer parses the embedded templates against the given session manager.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("failed to get templates fs: %v", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return renderer
}

// createTestUser creates a user account with the given credentials.
func createTestUser(t *testing.T, db *sql.DB, username, password, role string) store.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestNews creates a news item in the news category.
func createTestNews(t *testing.T, db *sql.DB, title, body string, published bool, createdAt time.Time) store.Content {
	t.Helper()

	queries := store.New(db)
	category, err := queries.GetOrCreateCategoryBySlug(context.Background(), newsCategorySlug, newsCategoryName)
	if err != nil {
		t.Fatalf("failed to create news category: %v", err)
	}

	item, err := queries.CreateContent(context.Background(), store.CreateContentParams{
		Title:       title,
		Body:        body,
		CategoryID:  sql.NullInt64{Int64: category.ID, Valid: true},
		IsPublished: published,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("failed to create test news item: %v", err)
	}
	return item
}

// requestWithSession wraps a request with a fresh session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// requestWithUser injects a signed-in user snapshot into the request
// context, the way LoadUser does after login.
func requestWithUser(r *http.Request, user store.User) *http.Request {
	snapshot := model.SessionUser{ID: user.ID, Username: user.Username, Role: user.Role}
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, snapshot))
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks for a redirect to the expected location.
func assertRedirect(t *testing.T, got int, location, want string) {
	t.Helper()
	assertStatus(t, got, http.StatusSeeOther)
	if location != want {
		t.Errorf("redirect location = %q; want %q", location, want)
	}
}
