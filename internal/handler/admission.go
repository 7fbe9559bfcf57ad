// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"unisite/internal/middleware"
	"unisite/internal/render"
	"unisite/internal/store"
	"unisite/internal/util"
)

// AdmissionHandler handles the admission page and application form.
type AdmissionHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAdmissionHandler creates a new AdmissionHandler.
func NewAdmissionHandler(db *sql.DB, renderer *render.Renderer) *AdmissionHandler {
	return &AdmissionHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// AdmissionForm renders the admission page with the program catalog
// for the application form.
func (h *AdmissionHandler) AdmissionForm(w http.ResponseWriter, r *http.Request) {
	programs, err := h.queries.ListActivePrograms(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load programs for admission page", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admission", render.TemplateData{
		Title: "Поступающим",
		Data:  programs,
	}); err != nil {
		logAndInternalError(w, "failed to render admission page", "error", err)
	}
}

// SubmitApplication persists an admission application.
func (h *AdmissionHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdmission) {
		return
	}

	lastName := strings.TrimSpace(r.FormValue("last_name"))
	firstName := strings.TrimSpace(r.FormValue("first_name"))
	middleName := strings.TrimSpace(r.FormValue("middle_name"))
	birthDateStr := strings.TrimSpace(r.FormValue("birth_date"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	email := strings.TrimSpace(r.FormValue("email"))
	educationLevel := strings.TrimSpace(r.FormValue("education_level"))
	school := strings.TrimSpace(r.FormValue("school"))
	graduationYearStr := strings.TrimSpace(r.FormValue("graduation_year"))
	programCode := strings.TrimSpace(r.FormValue("program_code"))
	formEducation := strings.TrimSpace(r.FormValue("form_education"))
	consentData := r.FormValue("consent_data") != ""
	consentRules := r.FormValue("consent_rules") != ""

	if lastName == "" || firstName == "" || birthDateStr == "" || phone == "" ||
		email == "" || educationLevel == "" || school == "" ||
		graduationYearStr == "" || programCode == "" || formEducation == "" {
		flashError(w, r, h.renderer, redirectAdmission, "Заполните все обязательные поля заявления.")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, redirectAdmission, "Укажите корректный адрес электронной почты.")
		return
	}
	if !consentData || !consentRules {
		flashError(w, r, h.renderer, redirectAdmission, "Необходимо дать согласие на обработку персональных данных и правила приёма.")
		return
	}

	birthDate, err := time.Parse("2006-01-02", birthDateStr)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdmission, "Укажите корректную дату рождения.")
		return
	}

	graduationYear, err := strconv.ParseInt(graduationYearStr, 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdmission, "Укажите корректный год окончания.")
		return
	}

	// The program name is resolved from the catalog when the code is
	// known; an unknown code still files the application for manual review.
	var programName sql.NullString
	if programs, err := h.queries.ListActivePrograms(r.Context()); err == nil {
		for _, p := range programs {
			if p.Code == programCode {
				programName = util.NullString(p.Name)
				break
			}
		}
	}

	app, err := h.queries.CreateAdmission(r.Context(), store.CreateAdmissionParams{
		LastName:       lastName,
		FirstName:      firstName,
		MiddleName:     util.NullString(middleName),
		BirthDate:      birthDate,
		Phone:          phone,
		Email:          email,
		EducationLevel: educationLevel,
		School:         school,
		GraduationYear: graduationYear,
		ProgramCode:    programCode,
		ProgramName:    programName,
		FormEducation:  formEducation,
		ConsentData:    consentData,
		ConsentRules:   consentRules,
		IPAddress:      util.NullString(middleware.GetClientIP(r)),
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		logAndInternalError(w, "failed to save admission application", "error", err)
		return
	}

	slog.Info("admission application received", "application_id", app.ID, "program_code", programCode)
	flashSuccess(w, r, h.renderer, redirectAdmission, "Заявление принято. Номер вашего заявления: "+strconv.FormatInt(app.ID, 10)+".")
}
