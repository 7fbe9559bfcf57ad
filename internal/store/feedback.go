// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// CreateFeedbackParams holds the fields for CreateFeedback.
type CreateFeedbackParams struct {
	FullName  string
	Email     string
	Phone     sql.NullString
	Subject   string
	Message   string
	IPAddress sql.NullString
	Country   sql.NullString
	CreatedAt time.Time
}

// CreateFeedback inserts a contact-form submission.
func (q *Queries) CreateFeedback(ctx context.Context, arg CreateFeedbackParams) (FeedbackMessage, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO feedback_messages (full_name, email, phone, subject, message, ip_address, country, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.FullName, arg.Email, arg.Phone, arg.Subject, arg.Message,
		arg.IPAddress, arg.Country, arg.CreatedAt,
	)
	if err != nil {
		return FeedbackMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return FeedbackMessage{}, err
	}
	return q.GetFeedbackByID(ctx, id)
}

// GetFeedbackByID fetches a feedback message by primary key.
func (q *Queries) GetFeedbackByID(ctx context.Context, id int64) (FeedbackMessage, error) {
	var f FeedbackMessage
	err := q.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, phone, subject, message, is_processed, ip_address, country, created_at
		 FROM feedback_messages WHERE id = ?`, id,
	).Scan(&f.ID, &f.FullName, &f.Email, &f.Phone, &f.Subject, &f.Message,
		&f.IsProcessed, &f.IPAddress, &f.Country, &f.CreatedAt)
	return f, err
}

// CountFeedback returns the total number of feedback messages.
func (q *Queries) CountFeedback(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback_messages").Scan(&n)
	return n, err
}
