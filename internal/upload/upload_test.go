// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import "testing"

func TestAllowed(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.png", true},
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"animation.gif", true},
		{"document.pdf", false},
		{"script.png.exe", false},
		{"noextension", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.filename); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"My Photo.JPG", "my-photo.jpg"},
		{"фото кампуса.jpeg", "foto-kampusa.jpeg"},
		{"../../etc/passwd.png", "passwd.png"},
		{"<script>.gif", "script.gif"},
		{"???.png", "image.png"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestThumbnailName(t *testing.T) {
	if got := ThumbnailName("abc_photo.png"); got != "abc_photo_thumb.png" {
		t.Errorf("ThumbnailName = %q", got)
	}
}
