// Package modpkg validates mod package files before they are handed to
// the daemon. Validation here is strict on purpose: a path that fails
// never reaches the socket, so the daemon only sees requests worth
// doing IO for.
package modpkg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
)

// Extensions the daemon knows how to extract.
var packageExtensions = map[string]bool{
	".modpkg":  true,
	".fantome": true,
	".zip":     true,
}

// ValidateFilename validates a bare filename received from an external
// source before it is joined into a path.
//
// Returns an error if the filename:
//   - Is empty
//   - Contains path separators (/ or \)
//   - Is the ".." component
//   - Contains null bytes
func ValidateFilename(filename string) error {
	if filename == "" {
		return apperr.New(apperr.CodeInvalidPath, "filename cannot be empty")
	}
	if strings.ContainsRune(filename, 0) {
		return apperr.New(apperr.CodeInvalidPath, "filename contains null byte")
	}
	if strings.ContainsRune(filename, '/') || strings.ContainsRune(filename, '\\') {
		return apperr.New(apperr.CodeInvalidPath, "filename cannot contain path separators: %s", filename)
	}
	// Separators are already rejected, so only the literal ".."
	// component can traverse. "skin..v2.modpkg" stays legal.
	if filename == ".." {
		return apperr.New(apperr.CodeInvalidPath, "filename cannot be '..'")
	}
	return nil
}

// ValidatePackagePath checks that path names an existing regular file
// with a known package extension.
func ValidatePackagePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return apperr.New(apperr.CodeInvalidPath, "package path cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !packageExtensions[ext] {
		return apperr.New(apperr.CodeModPkg, "unsupported package extension %q", ext).
			WithContext("path", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperr.New(apperr.CodeInvalidPath, "package file does not exist").
				WithContext("path", path)
		}
		return apperr.New(apperr.CodeIO, "cannot stat package: %v", err).
			WithContext("path", path)
	}
	if info.IsDir() {
		return apperr.New(apperr.CodeModPkg, "package path is a directory").
			WithContext("path", path)
	}
	return nil
}

// KnownExtension reports whether ext (with leading dot, any case) is a
// package extension the daemon can extract.
func KnownExtension(ext string) bool {
	return packageExtensions[strings.ToLower(ext)]
}

// DisplayName derives a human-readable mod name from a package
// filename: extension stripped, separators turned into spaces, words
// title-cased.
func DisplayName(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return fileName
	}
	return strings.Join(words, " ")
}

// ValidateAll checks a batch of package paths and reports every failure
// at once, keyed by path.
func ValidateAll(paths []string) error {
	var bad []string
	for _, p := range paths {
		if err := ValidatePackagePath(p); err != nil {
			bad = append(bad, fmt.Sprintf("%s: %v", p, err))
		}
	}
	if len(bad) > 0 {
		return apperr.New(apperr.CodeValidationFailed, "%d package(s) failed validation", len(bad)).
			WithContext("failures", strings.Join(bad, "; "))
	}
	return nil
}
