package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CatalogExt is the extension of String Catalog files.
const CatalogExt = ".xcstrings"

// DetectCatalog returns the catalog to work on: f.Catalog when set, otherwise
// the only .xcstrings file directly inside rootDir.
func DetectCatalog(rootDir string, f *File) (string, error) {
	if f != nil && f.Catalog != "" {
		return Resolve(rootDir, f.Catalog), nil
	}

	found := findCatalogs(rootDir)
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no %s file found in %s", CatalogExt, rootDir)
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, p := range found {
			names[i] = filepath.Base(p)
		}
		return "", fmt.Errorf("several %s files found in %s (%s), set catalog in %s",
			CatalogExt, rootDir, strings.Join(names, ", "), FileName)
	}
}

func findCatalogs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), CatalogExt) {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(found)
	return found
}

// isLangCode checks if a string looks like an Xcode language code: en, pt-BR,
// zh-Hans, es-419.
func isLangCode(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts[0]) < 2 || len(parts[0]) > 3 || !isLower(parts[0]) {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) < 2 || len(p) > 8 || !isAlnum(p) {
			return false
		}
	}
	return true
}

// IsLangCode reports whether s is accepted as a language code.
func IsLangCode(s string) bool { return isLangCode(s) }

func isLower(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
