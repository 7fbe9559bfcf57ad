// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is a system account. Usernames are unique; passwords are stored
// as argon2id hashes only.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	FullName     sql.NullString
	Email        sql.NullString
	CreatedAt    time.Time
}

// Category groups content items under a unique slug.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description sql.NullString
}

// Content is a news/article record. Author and category are weak
// references: the row survives deletion of either.
type Content struct {
	ID          int64
	Title       string
	Body        string
	AuthorID    sql.NullInt64
	CategoryID  sql.NullInt64
	IsPublished bool
	Views       int64
	ImagePath   sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Faculty is an institute/faculty of the organization.
type Faculty struct {
	ID           int64
	Name         string
	ShortName    sql.NullString
	Description  sql.NullString
	DeanID       sql.NullInt64
	ContactPhone sql.NullString
	ContactEmail sql.NullString
	Website      sql.NullString
	CreatedAt    time.Time
}

// EducationalProgram is a degree program offered by a faculty.
type EducationalProgram struct {
	ID             int64
	FacultyID      int64
	Code           string
	Name           string
	Level          sql.NullString
	Form           sql.NullString
	Duration       sql.NullString
	Description    sql.NullString
	StudyPlanPath  sql.NullString
	CurriculumPath sql.NullString
	IsActive       bool
	CreatedAt      time.Time
}

// FeedbackMessage is a contact-form submission.
type FeedbackMessage struct {
	ID          int64
	FullName    string
	Email       string
	Phone       sql.NullString
	Subject     string
	Message     string
	IsProcessed bool
	IPAddress   sql.NullString
	Country     sql.NullString
	CreatedAt   time.Time
}

// AdmissionApplication is an application submitted via the admission form.
type AdmissionApplication struct {
	ID             int64
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
	Status         string
	Notes          sql.NullString
	ConsentData    bool
	ConsentRules   bool
	IPAddress      sql.NullString
	CreatedAt      time.Time
}

// OrganizationSection is a mandated information section (svedeniya).
type OrganizationSection struct {
	ID          int64
	OrderNum    int64
	Code        string
	Title       string
	Description sql.NullString
	IsRequired  bool
	Icon        sql.NullString
}

// OrganizationItem is an entry within an organization section.
type OrganizationItem struct {
	ID          int64
	SectionID   int64
	OrderNum    int64
	Title       string
	Content     sql.NullString
	FilePath    sql.NullString
	FileName    sql.NullString
	FileSize    sql.NullInt64
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event is a persisted log record.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress sql.NullString
	URL       sql.NullString
	Metadata  string
	CreatedAt time.Time
}
