// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteNews is the news listing route.
	RouteNews = "/news"
	// RouteNewsID is the news detail route pattern.
	RouteNewsID = RouteNews + "/{id}"
	// RouteAddNews is the admin publishing route.
	RouteAddNews = "/admin/add-news"
	// RouteSearch is the site search route.
	RouteSearch = "/search"
	// RouteAbout is the about page route.
	RouteAbout = "/about"
	// RouteContacts is the contacts page route.
	RouteContacts = "/contacts"
	// RouteSvedeniya is the mandated information route.
	RouteSvedeniya = "/svedeniya"
	// RouteFaculties is the faculties page route.
	RouteFaculties = "/faculties"
	// RouteEducation is the education page route.
	RouteEducation = "/education"
	// RouteDocuments is the documents page route.
	RouteDocuments = "/documents"
	// RouteAdmission is the admission page route.
	RouteAdmission = "/admission"
	// RouteSubmitAdmission is the admission form submission route.
	RouteSubmitAdmission = "/submit_admission"
	// RouteAccessibility is the accessibility statement route.
	RouteAccessibility = "/accessibility"
)

const (
	redirectHome      = RouteRoot
	redirectLogin     = RouteLogin
	redirectRegister  = RouteRegister
	redirectNews      = RouteNews
	redirectAddNews   = RouteAddNews
	redirectContacts  = RouteContacts
	redirectAdmission = RouteAdmission
)
