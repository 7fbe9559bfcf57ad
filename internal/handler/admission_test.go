package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"unisite/internal/store"
)

func validApplicationForm() url.Values {
	return url.Values{
		"last_name":       {"Петров"},
		"first_name":      {"Пётр"},
		"middle_name":     {"Петрович"},
		"birth_date":      {"2007-05-14"},
		"phone":           {"+7 900 111-22-33"},
		"email":           {"petrov@example.com"},
		"education_level": {"Среднее общее"},
		"school":          {"Школа № 5"},
		"graduation_year": {"2025"},
		"program_code":    {"09.03.01"},
		"form_education":  {"Очная"},
		"consent_data":    {"1"},
		"consent_rules":   {"1"},
	}
}

func TestSubmitApplicationStoresEntry(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAdmissionHandler(db, testRenderer(t, sm))

	w := httptest.NewRecorder()
	h.SubmitApplication(w, postForm(sm, RouteSubmitAdmission, validApplicationForm()))

	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteAdmission)

	queries := store.New(db)
	n, err := queries.CountAdmissions(context.Background())
	if err != nil {
		t.Fatalf("CountAdmissions: %v", err)
	}
	if n != 1 {
		t.Fatalf("application count = %d; want 1", n)
	}

	app, err := queries.GetAdmissionByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetAdmissionByID: %v", err)
	}
	if app.Status != "new" {
		t.Errorf("status = %q; want %q", app.Status, "new")
	}
	if app.ProgramCode != "09.03.01" {
		t.Errorf("program code = %q; want %q", app.ProgramCode, "09.03.01")
	}
}

func TestSubmitApplicationRequiresConsent(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAdmissionHandler(db, testRenderer(t, sm))

	form := validApplicationForm()
	form.Del("consent_data")

	w := httptest.NewRecorder()
	h.SubmitApplication(w, postForm(sm, RouteSubmitAdmission, form))

	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteAdmission)

	n, err := store.New(db).CountAdmissions(context.Background())
	if err != nil {
		t.Fatalf("CountAdmissions: %v", err)
	}
	if n != 0 {
		t.Errorf("application count = %d; want 0", n)
	}
}

func TestSubmitApplicationRejectsBadBirthDate(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAdmissionHandler(db, testRenderer(t, sm))

	form := validApplicationForm()
	form.Set("birth_date", "14.05.2007")

	w := httptest.NewRecorder()
	h.SubmitApplication(w, postForm(sm, RouteSubmitAdmission, form))

	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteAdmission)

	n, err := store.New(db).CountAdmissions(context.Background())
	if err != nil {
		t.Fatalf("CountAdmissions: %v", err)
	}
	if n != 0 {
		t.Errorf("application count = %d; want 0", n)
	}
}

func TestSubmitApplicationUnknownProgramStillFiled(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAdmissionHandler(db, testRenderer(t, sm))

	form := validApplicationForm()
	form.Set("program_code", "99.99.99")

	w := httptest.NewRecorder()
	h.SubmitApplication(w, postForm(sm, RouteSubmitAdmission, form))

	assertRedirect(t, w.Code, w.Header().Get("Location"), RouteAdmission)

	app, err := store.New(db).GetAdmissionByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetAdmissionByID: %v", err)
	}
	if app.ProgramName.Valid {
		t.Errorf("program name = %q; want unresolved for unknown code", app.ProgramName.String)
	}
}

func TestAdmissionFormRenders(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAdmissionHandler(db, testRenderer(t, sm))

	r := requestWithSession(sm, httptest.NewRequest(http.MethodGet, RouteAdmission, nil))
	w := httptest.NewRecorder()
	h.AdmissionForm(w, r)

	assertStatus(t, w.Code, http.StatusOK)
}
