// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
)

const categoryColumns = "id, name, slug, description"

func scanCategory(row *sql.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description)
	return c, err
}

// CreateCategoryParams holds the fields for CreateCategory.
type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description sql.NullString
}

// CreateCategory inserts a category.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug, description) VALUES (?, ?, ?)",
		arg.Name, arg.Slug, arg.Description,
	)
	if err != nil {
		return Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Category{}, err
	}
	return q.GetCategoryByID(ctx, id)
}

// GetCategoryByID fetches a category by primary key.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
}

// GetCategoryBySlug fetches a category by its unique slug.
func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE slug = ?", slug))
}

// GetOrCreateCategoryBySlug resolves a category by slug, creating it if
// missing. The insert relies on the unique constraint, so concurrent
// first publishes cannot produce duplicates: ON CONFLICT DO NOTHING
// followed by a select is atomic per statement.
func (q *Queries) GetOrCreateCategoryBySlug(ctx context.Context, slug, name string) (Category, error) {
	if _, err := q.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug) VALUES (?, ?) ON CONFLICT(slug) DO NOTHING",
		name, slug,
	); err != nil {
		return Category{}, err
	}
	return q.GetCategoryBySlug(ctx, slug)
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountCategories returns the total number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&n)
	return n, err
}
