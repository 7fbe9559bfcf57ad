// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contentColumns = "id, title, body, author_id, category_id, is_published, views, image_path, created_at, updated_at"

func scanContentRows(rows *sql.Rows) ([]Content, error) {
	defer rows.Close()

	var items []Content
	for rows.Next() {
		var c Content
		if err := rows.Scan(&c.ID, &c.Title, &c.Body, &c.AuthorID, &c.CategoryID,
			&c.IsPublished, &c.Views, &c.ImagePath, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CreateContentParams holds the fields for CreateContent.
type CreateContentParams struct {
	Title       string
	Body        string
	AuthorID    sql.NullInt64
	CategoryID  sql.NullInt64
	IsPublished bool
	ImagePath   sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateContent inserts a content row and returns it.
func (q *Queries) CreateContent(ctx context.Context, arg CreateContentParams) (Content, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO content (title, body, author_id, category_id, is_published, image_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Body, arg.AuthorID, arg.CategoryID, arg.IsPublished,
		arg.ImagePath, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return Content{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Content{}, err
	}
	return q.GetContentByID(ctx, id)
}

// GetContentByID fetches a content row by primary key, regardless of
// publication state. Callers decide whether unpublished rows may be shown.
func (q *Queries) GetContentByID(ctx context.Context, id int64) (Content, error) {
	var c Content
	err := q.db.QueryRowContext(ctx,
		"SELECT "+contentColumns+" FROM content WHERE id = ?", id,
	).Scan(&c.ID, &c.Title, &c.Body, &c.AuthorID, &c.CategoryID,
		&c.IsPublished, &c.Views, &c.ImagePath, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListPublishedByCategoryParams holds the fields for ListPublishedByCategory.
type ListPublishedByCategoryParams struct {
	CategoryID int64
	Limit      int64
}

// ListPublishedByCategory returns published items in a category, newest
// first. Limit <= 0 means no limit.
func (q *Queries) ListPublishedByCategory(ctx context.Context, arg ListPublishedByCategoryParams) ([]Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content
		WHERE category_id = ? AND is_published = 1
		ORDER BY created_at DESC, id DESC`
	args := []any{arg.CategoryID}
	if arg.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, arg.Limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanContentRows(rows)
}

// ListPublished returns all published items, newest first. Used by the
// search workflow, which matches titles and bodies in memory.
func (q *Queries) ListPublished(ctx context.Context) ([]Content, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM content
		 WHERE is_published = 1
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return scanContentRows(rows)
}

// CountContent returns the total number of content rows.
func (q *Queries) CountContent(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content").Scan(&n)
	return n, err
}
