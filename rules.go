package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultSkipDirs are directory names pruned from every scan. The match is
// case-sensitive and exact; dot-prefixed directories are pruned regardless.
var defaultSkipDirs = []string{
	"__pycache__", ".git", "node_modules", "venv", "env", ".venv", ".env",
	"logs", "!backups",
}

// defaultCategories maps an exclusion category name to the file extensions it
// covers. The report lists these categories verbatim, so the names are
// user-facing. Extensions carry the leading dot and are lowercase.
var defaultCategories = map[string][]string{
	"Document Files": {
		".md", ".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
		".odt", ".ods", ".odp", ".rtf", ".txt", ".csv", ".tsv",
	},
	"Database Files": {
		".db", ".sqlite", ".sqlite3", ".db3", ".mdb", ".accdb", ".sql",
		".frm", ".myd", ".myi",
	},
	"Image Files": {
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp",
		".svg", ".ico", ".psd", ".ai", ".eps", ".raw", ".heic", ".heif",
		".indd", ".cr2", ".nef", ".arw", ".dng",
	},
	"Archive/Compressed Files": {
		".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz",
	},
	"Backup and Cache Files": {
		".bak", ".tmp", ".swp", ".swo", "~",
	},
	"Binary/Compiled Files": {
		".pyc", ".pyo", ".pyd", ".so", ".dll", ".exe", ".class",
	},
	"System and Config Files": {
		".ini", ".cfg", ".conf", ".log", ".lock", ".lnk",
	},
}

// specialSkipFiles are skipped by exact name wherever they appear.
var specialSkipFiles = map[string]bool{
	"__init__.py": true,
	"desktop.ini": true,
}

// SkipRules holds the directory names and extension categories excluded from
// a scan. Build one with DefaultSkipRules or NewSkipRules; the zero value is
// not usable.
type SkipRules struct {
	Dirs       map[string]bool
	Categories map[string][]string

	extToCategory map[string]string
}

// NewSkipRules builds rules from an explicit directory list and category map.
func NewSkipRules(dirs []string, categories map[string][]string) *SkipRules {
	r := &SkipRules{
		Dirs:          make(map[string]bool, len(dirs)),
		Categories:    categories,
		extToCategory: make(map[string]string),
	}
	for _, d := range dirs {
		r.Dirs[d] = true
	}
	for category, exts := range categories {
		for _, ext := range exts {
			r.extToCategory[strings.ToLower(ext)] = category
		}
	}
	return r
}

// DefaultSkipRules returns the built-in rule set.
func DefaultSkipRules() *SkipRules {
	return NewSkipRules(defaultSkipDirs, defaultCategories)
}

// ExcludeDir reports whether a directory with the given name should be pruned.
func (r *SkipRules) ExcludeDir(name string) bool {
	return r.Dirs[name] || strings.HasPrefix(name, ".")
}

// ExcludeFile reports whether a file with the given base name should be left
// out of the scan, and if so why. The reason names the matching category for
// extension exclusions.
func (r *SkipRules) ExcludeFile(name string) (bool, string) {
	if strings.HasPrefix(name, ".") {
		return true, "hidden file"
	}
	if specialSkipFiles[name] {
		return true, "special file"
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false, ""
	}
	if category, ok := r.extToCategory[ext]; ok {
		return true, category
	}
	return false, ""
}

// CategoryNames returns the category names in sorted order for stable report
// output.
func (r *SkipRules) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for name := range r.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedDirs returns the skipped directory names in sorted order.
func (r *SkipRules) SortedDirs() []string {
	dirs := make([]string, 0, len(r.Dirs))
	for d := range r.Dirs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

const categoriesFileName = "categories.yml"

// loadCategoriesFile looks for a categories.yml override in the standard
// config locations and parses it as a category -> extensions map. A missing
// file is not an error; the caller falls back to the defaults.
func loadCategoriesFile() (map[string][]string, error) {
	var searchPaths []string
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "linecount"))
	}
	searchPaths = append(searchPaths, ".")

	var categoriesPath string
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, categoriesFileName)
		if _, err := os.Stat(candidate); err == nil {
			categoriesPath = candidate
			break
		}
	}
	if categoriesPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(categoriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", categoriesPath, err)
	}
	return parseCategories(data, categoriesPath)
}

func parseCategories(data []byte, source string) (map[string][]string, error) {
	var categories map[string][]string
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories defined in %s", source)
	}
	// Normalize so lookups stay case-insensitive and dot-prefixed.
	for category, exts := range categories {
		for i, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext != "" && ext != "~" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			exts[i] = ext
		}
		categories[category] = exts
	}
	return categories, nil
}
