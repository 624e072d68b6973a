package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// FileRecord is the per-file metadata captured during a scan. Records are
// immutable once the scan pass completes, except for Tokens which the
// optional token-counting pass fills in afterwards.
type FileRecord struct {
	Path   string // relative to the scan root, forward slashes
	Ext    string // lowercase without the dot, "none" when absent
	Lines  int
	Size   int64 // bytes
	Tokens int   // populated only when token counting is enabled
}

// SizeKB returns the file size in kilobytes for display (one decimal in the
// report tables).
func (r FileRecord) SizeKB() float64 {
	return float64(r.Size) / 1024.0
}

// ScanResult aggregates one completed scan of a directory tree.
type ScanResult struct {
	Root       string
	TotalFiles int
	TotalLines int
	Records    []FileRecord
}

// ScanOptions adjusts walker behavior.
type ScanOptions struct {
	// NoIgnore disables .gitignore handling at the scan root.
	NoIgnore bool
}

// Scan walks the tree under root, applies the skip rules, counts lines in
// every surviving file, and returns the aggregate. Unreadable or binary files
// are reported to stderr and skipped; only a bad root is fatal.
func Scan(root string, rules *SkipRules, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var ignoreMatcher gitignore.IgnoreMatcher
	if !opts.NoIgnore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not parse .gitignore file %s: %v\n", gitIgnorePath, err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	result := &ScanResult{Root: root}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error accessing path %s: %v\n", path, err)
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		relPath, _ := filepath.Rel(root, path)

		if d.IsDir() {
			if rules.ExcludeDir(name) {
				return fs.SkipDir
			}
			// The matcher resolves paths against the .gitignore location
			// itself, so it needs the walker's full path, not relPath.
			if ignoreMatcher != nil && ignoreMatcher.Match(path, true) {
				return fs.SkipDir
			}
			return nil
		}

		if ignoreMatcher != nil && ignoreMatcher.Match(path, false) {
			return nil
		}
		if excluded, _ := rules.ExcludeFile(name); excluded {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not stat %s: %v\n", path, err)
			return nil
		}

		lines, err := CountLines(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
			return nil
		}

		result.Records = append(result.Records, FileRecord{
			Path:  filepath.ToSlash(relPath),
			Ext:   displayExt(name),
			Lines: lines,
			Size:  fileInfo.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}

	// Stable base order so two runs on an unchanged tree render identically.
	sort.Slice(result.Records, func(i, j int) bool {
		return strings.ToLower(result.Records[i].Path) < strings.ToLower(result.Records[j].Path)
	})

	result.TotalFiles = len(result.Records)
	for _, rec := range result.Records {
		result.TotalLines += rec.Lines
	}
	return result, nil
}

// displayExt returns the lowercased extension without its dot, or "none" for
// extensionless files.
func displayExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "none"
	}
	return ext[1:]
}
