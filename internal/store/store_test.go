// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) (*Queries, *sql.DB) {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return New(db), db
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	q, _ := testDB(t)
	ctx := context.Background()

	params := CreateUserParams{
		Username:     "petrov",
		PasswordHash: "x",
		Role:         "editor",
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := q.CreateUser(ctx, params); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	if _, err := q.CreateUser(ctx, params); err == nil {
		t.Fatal("expected unique constraint error on duplicate username")
	}

	n, err := q.CountUsersByUsername(ctx, "petrov")
	if err != nil {
		t.Fatalf("CountUsersByUsername: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d users, want 1", n)
	}
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	q, _ := testDB(t)

	_, err := q.GetUserByUsername(context.Background(), "ghost")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("got %v, want sql.ErrNoRows", err)
	}
}

func TestGetOrCreateCategoryBySlug(t *testing.T) {
	q, _ := testDB(t)
	ctx := context.Background()

	first, err := q.GetOrCreateCategoryBySlug(ctx, "news", "Новости")
	if err != nil {
		t.Fatalf("GetOrCreateCategoryBySlug: %v", err)
	}
	if first.Name != "Новости" || first.Slug != "news" {
		t.Fatalf("unexpected category: %+v", first)
	}

	// A second call with a different display name must return the
	// existing row unchanged.
	second, err := q.GetOrCreateCategoryBySlug(ctx, "news", "Другое имя")
	if err != nil {
		t.Fatalf("second GetOrCreateCategoryBySlug: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("got id %d, want %d", second.ID, first.ID)
	}
	if second.Name != "Новости" {
		t.Fatalf("existing name overwritten: %q", second.Name)
	}

	n, err := q.CountCategories(ctx)
	if err != nil {
		t.Fatalf("CountCategories: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d categories, want 1", n)
	}
}

func TestListPublishedByCategory(t *testing.T) {
	q, _ := testDB(t)
	ctx := context.Background()

	cat, err := q.GetOrCreateCategoryBySlug(ctx, "news", "Новости")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	other, err := q.GetOrCreateCategoryBySlug(ctx, "events", "События")
	if err != nil {
		t.Fatalf("category: %v", err)
	}

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if _, err := q.CreateContent(ctx, CreateContentParams{
			Title:       "Новость",
			Body:        "Текст",
			CategoryID:  sql.NullInt64{Int64: cat.ID, Valid: true},
			IsPublished: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("CreateContent: %v", err)
		}
	}
	// Unpublished and foreign-category rows must never appear.
	if _, err := q.CreateContent(ctx, CreateContentParams{
		Title:      "Черновик",
		Body:       "Текст",
		CategoryID: sql.NullInt64{Int64: cat.ID, Valid: true},
		CreatedAt:  base.Add(100 * time.Hour),
		UpdatedAt:  base.Add(100 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if _, err := q.CreateContent(ctx, CreateContentParams{
		Title:       "Событие",
		Body:        "Текст",
		CategoryID:  sql.NullInt64{Int64: other.ID, Valid: true},
		IsPublished: true,
		CreatedAt:   base.Add(200 * time.Hour),
		UpdatedAt:   base.Add(200 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	items, err := q.ListPublishedByCategory(ctx, ListPublishedByCategoryParams{CategoryID: cat.ID, Limit: 5})
	if err != nil {
		t.Fatalf("ListPublishedByCategory: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Fatalf("items not in descending order at index %d", i)
		}
	}
	for _, it := range items {
		if !it.IsPublished {
			t.Fatalf("unpublished item %d in result", it.ID)
		}
		if it.CategoryID.Int64 != cat.ID {
			t.Fatalf("item %d from wrong category", it.ID)
		}
	}

	all, err := q.ListPublishedByCategory(ctx, ListPublishedByCategoryParams{CategoryID: cat.ID})
	if err != nil {
		t.Fatalf("ListPublishedByCategory unlimited: %v", err)
	}
	if len(all) != 7 {
		t.Fatalf("got %d items, want 7", len(all))
	}
}

func TestCreateFeedbackAndAdmission(t *testing.T) {
	q, _ := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	fb, err := q.CreateFeedback(ctx, CreateFeedbackParams{
		FullName:  "Иванов Иван",
		Email:     "ivanov@example.com",
		Subject:   "Вопрос",
		Message:   "Когда начинается приём документов?",
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}
	if fb.IsProcessed {
		t.Fatal("new feedback must not be marked processed")
	}

	app, err := q.CreateAdmission(ctx, CreateAdmissionParams{
		LastName:       "Сидорова",
		FirstName:      "Анна",
		BirthDate:      time.Date(2007, 6, 15, 0, 0, 0, 0, time.UTC),
		Phone:          "+7 900 000-00-00",
		Email:          "sidorova@example.com",
		EducationLevel: "Среднее общее",
		School:         "Школа №12",
		GraduationYear: 2025,
		ProgramCode:    "09.03.01",
		FormEducation:  "Очная",
		ConsentData:    true,
		ConsentRules:   true,
		CreatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreateAdmission: %v", err)
	}
	if app.Status != "new" {
		t.Fatalf("got status %q, want new", app.Status)
	}
}

func TestSeedIdempotent(t *testing.T) {
	q, db := testDB(t)
	ctx := context.Background()

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	users, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if users != 2 {
		t.Fatalf("got %d users, want 2", users)
	}

	cats, err := q.CountCategories(ctx)
	if err != nil {
		t.Fatalf("CountCategories: %v", err)
	}
	if cats != 3 {
		t.Fatalf("got %d categories, want 3", cats)
	}

	content, err := q.CountContent(ctx)
	if err != nil {
		t.Fatalf("CountContent: %v", err)
	}
	if content != 2 {
		t.Fatalf("got %d content rows, want 2", content)
	}

	admin, err := q.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if admin.Role != "admin" {
		t.Fatalf("got role %q, want admin", admin.Role)
	}

	listed, err := q.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("got %d categories, want 3", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].Name < listed[i-1].Name {
			t.Fatalf("categories not ordered by name at index %d", i)
		}
	}
}

func TestWithTxRollback(t *testing.T) {
	q, db := testDB(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := q.WithTx(tx).CreateCategory(ctx, CreateCategoryParams{
		Name: "Архив",
		Slug: "archive",
	}); err != nil {
		t.Fatalf("CreateCategory in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if _, err := q.GetCategoryBySlug(ctx, "archive"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("rolled-back category should be gone, got %v", err)
	}
}
