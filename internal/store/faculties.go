// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const facultyColumns = "id, name, short_name, description, dean_id, contact_phone, contact_email, website, created_at"

const programColumns = "id, faculty_id, code, name, level, form, duration, description, study_plan_path, curriculum_path, is_active, created_at"

// CreateFacultyParams holds the fields for CreateFaculty.
type CreateFacultyParams struct {
	Name         string
	ShortName    sql.NullString
	Description  sql.NullString
	DeanID       sql.NullInt64
	ContactPhone sql.NullString
	ContactEmail sql.NullString
	Website      sql.NullString
	CreatedAt    time.Time
}

// CreateFaculty inserts a faculty row.
func (q *Queries) CreateFaculty(ctx context.Context, arg CreateFacultyParams) (Faculty, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO faculties (name, short_name, description, dean_id, contact_phone, contact_email, website, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.ShortName, arg.Description, arg.DeanID,
		arg.ContactPhone, arg.ContactEmail, arg.Website, arg.CreatedAt,
	)
	if err != nil {
		return Faculty{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Faculty{}, err
	}
	return q.GetFacultyByID(ctx, id)
}

// GetFacultyByID fetches a faculty by primary key.
func (q *Queries) GetFacultyByID(ctx context.Context, id int64) (Faculty, error) {
	var f Faculty
	err := q.db.QueryRowContext(ctx,
		"SELECT "+facultyColumns+" FROM faculties WHERE id = ?", id,
	).Scan(&f.ID, &f.Name, &f.ShortName, &f.Description, &f.DeanID,
		&f.ContactPhone, &f.ContactEmail, &f.Website, &f.CreatedAt)
	return f, err
}

// ListFaculties returns all faculties ordered by name.
func (q *Queries) ListFaculties(ctx context.Context) ([]Faculty, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+facultyColumns+" FROM faculties ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faculties []Faculty
	for rows.Next() {
		var f Faculty
		if err := rows.Scan(&f.ID, &f.Name, &f.ShortName, &f.Description, &f.DeanID,
			&f.ContactPhone, &f.ContactEmail, &f.Website, &f.CreatedAt); err != nil {
			return nil, err
		}
		faculties = append(faculties, f)
	}
	return faculties, rows.Err()
}

// CountFaculties returns the total number of faculties.
func (q *Queries) CountFaculties(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM faculties").Scan(&n)
	return n, err
}

// CreateProgramParams holds the fields for CreateProgram.
type CreateProgramParams struct {
	FacultyID   int64
	Code        string
	Name        string
	Level       sql.NullString
	Form        sql.NullString
	Duration    sql.NullString
	Description sql.NullString
	IsActive    bool
	CreatedAt   time.Time
}

// CreateProgram inserts an educational program.
func (q *Queries) CreateProgram(ctx context.Context, arg CreateProgramParams) (EducationalProgram, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO educational_programs (faculty_id, code, name, level, form, duration, description, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.FacultyID, arg.Code, arg.Name, arg.Level, arg.Form,
		arg.Duration, arg.Description, arg.IsActive, arg.CreatedAt,
	)
	if err != nil {
		return EducationalProgram{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return EducationalProgram{}, err
	}
	return q.GetProgramByID(ctx, id)
}

// GetProgramByID fetches a program by primary key.
func (q *Queries) GetProgramByID(ctx context.Context, id int64) (EducationalProgram, error) {
	var p EducationalProgram
	err := q.db.QueryRowContext(ctx,
		"SELECT "+programColumns+" FROM educational_programs WHERE id = ?", id,
	).Scan(&p.ID, &p.FacultyID, &p.Code, &p.Name, &p.Level, &p.Form, &p.Duration,
		&p.Description, &p.StudyPlanPath, &p.CurriculumPath, &p.IsActive, &p.CreatedAt)
	return p, err
}

// ListActivePrograms returns active programs ordered by code.
func (q *Queries) ListActivePrograms(ctx context.Context) ([]EducationalProgram, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+programColumns+" FROM educational_programs WHERE is_active = 1 ORDER BY code")
	if err != nil {
		return nil, err
	}
	return scanProgramRows(rows)
}

// ListProgramsByFaculty returns a faculty's active programs ordered by code.
func (q *Queries) ListProgramsByFaculty(ctx context.Context, facultyID int64) ([]EducationalProgram, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+programColumns+" FROM educational_programs WHERE faculty_id = ? AND is_active = 1 ORDER BY code",
		facultyID)
	if err != nil {
		return nil, err
	}
	return scanProgramRows(rows)
}

func scanProgramRows(rows *sql.Rows) ([]EducationalProgram, error) {
	defer rows.Close()

	var programs []EducationalProgram
	for rows.Next() {
		var p EducationalProgram
		if err := rows.Scan(&p.ID, &p.FacultyID, &p.Code, &p.Name, &p.Level, &p.Form, &p.Duration,
			&p.Description, &p.StudyPlanPath, &p.CurriculumPath, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}
