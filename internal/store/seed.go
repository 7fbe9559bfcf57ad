// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unisite/internal/auth"
	"unisite/internal/model"
	"unisite/internal/util"
)

// Seed populates an empty database with the initial accounts, content
// categories, demo news, faculties and the mandated information
// sections. Each block is guarded by a count check, so running Seed on
// an already populated database is a no-op. The whole run is one
// transaction, so a failed seed leaves nothing behind.
func Seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := New(db).WithTx(tx)
	now := time.Now().UTC()

	if err := q.seedUsers(ctx, now); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := q.seedContent(ctx, now); err != nil {
		return fmt.Errorf("seed content: %w", err)
	}
	if err := q.seedFaculties(ctx, now); err != nil {
		return fmt.Errorf("seed faculties: %w", err)
	}
	if err := q.seedOrganizationSections(ctx); err != nil {
		return fmt.Errorf("seed organization sections: %w", err)
	}
	return tx.Commit()
}

func (q *Queries) seedUsers(ctx context.Context, now time.Time) error {
	n, err := q.CountUsers(ctx)
	if err != nil || n > 0 {
		return err
	}

	accounts := []struct {
		username string
		password string
		role     string
		fullName string
		email    string
	}{
		{"admin", "admin123", model.RoleAdmin, "Администратор сайта", "admin@university.example"},
		{"editor", "editor123", model.RoleEditor, "Редактор новостей", "editor@university.example"},
	}
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return err
		}
		if _, err := q.CreateUser(ctx, CreateUserParams{
			Username:     a.username,
			PasswordHash: hash,
			Role:         a.role,
			FullName:     util.NullString(a.fullName),
			Email:        util.NullString(a.email),
			CreatedAt:    now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) seedContent(ctx context.Context, now time.Time) error {
	n, err := q.CountCategories(ctx)
	if err != nil || n > 0 {
		return err
	}

	categories := []CreateCategoryParams{
		{Name: "Новости", Slug: "news", Description: util.NullString("Новости университета")},
		{Name: "Объявления", Slug: "announcements", Description: util.NullString("Официальные объявления")},
		{Name: "События", Slug: "events", Description: util.NullString("Мероприятия и события")},
	}
	for _, c := range categories {
		if _, err := q.CreateCategory(ctx, c); err != nil {
			return err
		}
	}

	created, err := q.ListCategories(ctx)
	if err != nil {
		return err
	}
	bySlug := make(map[string]Category, len(created))
	for _, c := range created {
		bySlug[c.Slug] = c
	}

	admin, err := q.GetUserByUsername(ctx, "admin")
	if err != nil {
		return err
	}

	news := []CreateContentParams{
		{
			Title: "Добро пожаловать на наш сайт!",
			Body: "Мы рады приветствовать вас на официальном сайте университета. " +
				"Здесь вы найдёте актуальные новости, информацию о факультетах, " +
				"образовательных программах и условиях поступления.",
			AuthorID:    util.NullInt64(admin.ID),
			CategoryID:  util.NullInt64(bySlug["news"].ID),
			IsPublished: true,
			CreatedAt:   now.Add(-48 * time.Hour),
			UpdatedAt:   now.Add(-48 * time.Hour),
		},
		{
			Title: "Начало зимней сессии",
			Body: "Зимняя экзаменационная сессия начинается 15 января. " +
				"Расписание экзаменов опубликовано на информационных стендах " +
				"факультетов и в личных кабинетах студентов.",
			AuthorID:    util.NullInt64(admin.ID),
			CategoryID:  util.NullInt64(bySlug["news"].ID),
			IsPublished: true,
			CreatedAt:   now.Add(-24 * time.Hour),
			UpdatedAt:   now.Add(-24 * time.Hour),
		},
	}
	for _, item := range news {
		if _, err := q.CreateContent(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) seedFaculties(ctx context.Context, now time.Time) error {
	n, err := q.CountFaculties(ctx)
	if err != nil || n > 0 {
		return err
	}

	faculties := []struct {
		faculty  CreateFacultyParams
		programs []CreateProgramParams
	}{
		{
			faculty: CreateFacultyParams{
				Name:         "Факультет информационных технологий",
				ShortName:    util.NullString("ФИТ"),
				Description:  util.NullString("Подготовка специалистов в области программирования и информационных систем"),
				ContactEmail: util.NullString("fit@university.example"),
				CreatedAt:    now,
			},
			programs: []CreateProgramParams{
				{
					Code:      "09.03.01",
					Name:      "Информатика и вычислительная техника",
					Level:     util.NullString("Бакалавриат"),
					Form:      util.NullString("Очная"),
					Duration:  util.NullString("4 года"),
					IsActive:  true,
					CreatedAt: now,
				},
				{
					Code:      "09.03.03",
					Name:      "Прикладная информатика",
					Level:     util.NullString("Бакалавриат"),
					Form:      util.NullString("Очная"),
					Duration:  util.NullString("4 года"),
					IsActive:  true,
					CreatedAt: now,
				},
			},
		},
		{
			faculty: CreateFacultyParams{
				Name:         "Экономический факультет",
				ShortName:    util.NullString("ЭФ"),
				Description:  util.NullString("Подготовка экономистов и менеджеров"),
				ContactEmail: util.NullString("econ@university.example"),
				CreatedAt:    now,
			},
			programs: []CreateProgramParams{
				{
					Code:      "38.03.01",
					Name:      "Экономика",
					Level:     util.NullString("Бакалавриат"),
					Form:      util.NullString("Очная"),
					Duration:  util.NullString("4 года"),
					IsActive:  true,
					CreatedAt: now,
				},
			},
		},
	}
	for _, entry := range faculties {
		created, err := q.CreateFaculty(ctx, entry.faculty)
		if err != nil {
			return err
		}
		for _, p := range entry.programs {
			p.FacultyID = created.ID
			if _, err := q.CreateProgram(ctx, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (q *Queries) seedOrganizationSections(ctx context.Context) error {
	n, err := q.CountOrganizationSections(ctx)
	if err != nil || n > 0 {
		return err
	}

	sections := []CreateOrganizationSectionParams{
		{OrderNum: 1, Code: "common", Title: "Основные сведения", IsRequired: true},
		{OrderNum: 2, Code: "struct", Title: "Структура и органы управления", IsRequired: true},
		{OrderNum: 3, Code: "document", Title: "Документы", IsRequired: true},
		{OrderNum: 4, Code: "education", Title: "Образование", IsRequired: true},
		{OrderNum: 5, Code: "employees", Title: "Руководство. Педагогический состав", IsRequired: true},
		{OrderNum: 6, Code: "objects", Title: "Материально-техническое обеспечение", IsRequired: true},
		{OrderNum: 7, Code: "paid_edu", Title: "Платные образовательные услуги", IsRequired: true},
		{OrderNum: 8, Code: "budget", Title: "Финансово-хозяйственная деятельность", IsRequired: true},
		{OrderNum: 9, Code: "vacant", Title: "Вакантные места для приёма", IsRequired: true},
		{OrderNum: 10, Code: "grants", Title: "Стипендии и меры поддержки обучающихся", IsRequired: true},
	}
	for _, s := range sections {
		if _, err := q.CreateOrganizationSection(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
