// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const admissionColumns = `id, last_name, first_name, middle_name, birth_date, phone, email,
	education_level, school, graduation_year, program_code, program_name, form_education,
	status, notes, consent_data, consent_rules, ip_address, created_at`

// CreateAdmissionParams holds the fields for CreateAdmission.
type CreateAdmissionParams struct {
	LastName       string
	FirstName      string
	MiddleName     sql.NullString
	BirthDate      time.Time
	Phone          string
	Email          string
	EducationLevel string
	School         string
	GraduationYear int64
	ProgramCode    string
	ProgramName    sql.NullString
	FormEducation  string
	ConsentData    bool
	ConsentRules   bool
	IPAddress      sql.NullString
	CreatedAt      time.Time
}

// CreateAdmission inserts an admission application with status "new".
func (q *Queries) CreateAdmission(ctx context.Context, arg CreateAdmissionParams) (AdmissionApplication, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO admission_applications (last_name, first_name, middle_name, birth_date, phone, email,
			education_level, school, graduation_year, program_code, program_name, form_education,
			consent_data, consent_rules, ip_address, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.LastName, arg.FirstName, arg.MiddleName, arg.BirthDate, arg.Phone, arg.Email,
		arg.EducationLevel, arg.School, arg.GraduationYear, arg.ProgramCode, arg.ProgramName,
		arg.FormEducation, arg.ConsentData, arg.ConsentRules, arg.IPAddress, arg.CreatedAt,
	)
	if err != nil {
		return AdmissionApplication{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return AdmissionApplication{}, err
	}
	return q.GetAdmissionByID(ctx, id)
}

// GetAdmissionByID fetches an application by primary key.
func (q *Queries) GetAdmissionByID(ctx context.Context, id int64) (AdmissionApplication, error) {
	var a AdmissionApplication
	err := q.db.QueryRowContext(ctx,
		"SELECT "+admissionColumns+" FROM admission_applications WHERE id = ?", id,
	).Scan(&a.ID, &a.LastName, &a.FirstName, &a.MiddleName, &a.BirthDate, &a.Phone, &a.Email,
		&a.EducationLevel, &a.School, &a.GraduationYear, &a.ProgramCode, &a.ProgramName,
		&a.FormEducation, &a.Status, &a.Notes, &a.ConsentData, &a.ConsentRules,
		&a.IPAddress, &a.CreatedAt)
	return a, err
}

// CountAdmissions returns the total number of applications.
func (q *Queries) CountAdmissions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admission_applications").Scan(&n)
	return n, err
}
