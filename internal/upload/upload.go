// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload stores news images on disk. Filenames are
// transliterated and sanitized, prefixed with a UUID to avoid
// collisions, and a thumbnail is rendered next to each image.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"

	"unisite/internal/util"
)

// allowedExtensions lists the image extensions accepted for news
// uploads. Validation is by filename suffix only.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

const thumbnailWidth = 400

// ErrExtensionNotAllowed is returned for files outside the image allow-list.
var ErrExtensionNotAllowed = fmt.Errorf("file extension not allowed")

// ImageStore saves uploaded images beneath a base directory.
type ImageStore struct {
	dir string
}

// NewImageStore creates a store rooted at dir, creating it if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Allowed reports whether the filename carries an accepted image extension.
func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SanitizeFilename transliterates a filename to ASCII and slugifies
// the base name so it is safe in URLs and on disk. Unidecode runs
// first because slugification alone cannot romanize Cyrillic.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	cleaned := util.Slugify(unidecode.Unidecode(name))
	if cleaned == "" {
		cleaned = "image"
	}
	return cleaned + ext
}

// Save validates and writes an uploaded file, returning the stored
// filename relative to the store's base directory.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if !Allowed(header.Filename) {
		return "", ErrExtensionNotAllowed
	}

	name := fmt.Sprintf("%s_%s", uuid.New().String(), SanitizeFilename(header.Filename))
	path := filepath.Join(s.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, file); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("writing file: %w", err)
	}

	// Thumbnails are best effort. A corrupt image still gets served
	// at its original size.
	s.writeThumbnail(path, name)

	return name, nil
}

// ThumbnailName returns the thumbnail filename for a stored image.
func ThumbnailName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_thumb" + ext
}

func (s *ImageStore) writeThumbnail(path, name string) {
	img, err := imaging.Open(path)
	if err != nil {
		return
	}
	if img.Bounds().Dx() <= thumbnailWidth {
		return
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	_ = imaging.Save(thumb, filepath.Join(s.dir, ThumbnailName(name)))
}

// Dir returns the store's base directory.
func (s *ImageStore) Dir() string {
	return s.dir
}
