package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

const bottomN = 5

// ReportOptions adjusts report rendering.
type ReportOptions struct {
	// TopN is the number of entries in the Largest Files table.
	TopN int
	// WithTokens adds a Tokens column to the inventory and a total to the
	// statistics section.
	WithTokens bool
	// GeneratedAt overrides the path shown in the report header. Defaults to
	// the scan root.
	GeneratedAt string
}

// BuildReport renders the full Markdown report for a scan: summary stats, the
// top-N and bottom-5 tables, the complete inventory, and the exclusion
// listing derived from the active rules.
func BuildReport(result *ScanResult, rules *SkipRules, opts ReportOptions) string {
	generatedAt := opts.GeneratedAt
	if generatedAt == "" {
		generatedAt = result.Root
	}

	var b strings.Builder
	b.WriteString("# Line Count Report\n")
	fmt.Fprintf(&b, "*Generated at: `%s`*\n", generatedAt)
	b.WriteString("\n")

	b.WriteString("## File Statistics\n")
	fmt.Fprintf(&b, "- **Total files analyzed:** %s\n", humanize.Comma(int64(result.TotalFiles)))
	fmt.Fprintf(&b, "- **Total lines of code:** %s\n", humanize.Comma(int64(result.TotalLines)))
	if opts.WithTokens {
		var totalTokens int64
		for _, rec := range result.Records {
			totalTokens += int64(rec.Tokens)
		}
		fmt.Fprintf(&b, "- **Total tokens:** %s\n", humanize.Comma(totalTokens))
	}
	b.WriteString("\n")

	b.WriteString("## Largest Files\n")
	fmt.Fprintf(&b, "*Top %d files by line count*\n\n", opts.TopN)
	b.WriteString(rankedTable(topFiles(result.Records, opts.TopN)))
	b.WriteString("\n\n---\n\n")

	b.WriteString("## Smallest Files\n")
	fmt.Fprintf(&b, "*Top %d smallest non-empty files*\n\n", bottomN)
	b.WriteString(rankedTable(bottomFiles(result.Records, bottomN)))
	b.WriteString("\n\n---\n\n")

	b.WriteString("## Complete File List\n")
	b.WriteString("*Sorted by line count (descending), then by filename*\n\n")
	b.WriteString(inventoryTable(result.Records, opts.WithTokens))
	b.WriteString("\n\n---\n\n")

	b.WriteString(exclusionsSection(rules))
	b.WriteString("\n")

	return b.String()
}

// byLinesDesc returns a copy of records ordered by line count descending,
// ties broken by lowercased path ascending.
func byLinesDesc(records []FileRecord) []FileRecord {
	sorted := make([]FileRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Lines != sorted[j].Lines {
			return sorted[i].Lines > sorted[j].Lines
		}
		return strings.ToLower(sorted[i].Path) < strings.ToLower(sorted[j].Path)
	})
	return sorted
}

// topFiles returns up to n non-empty records with the highest line counts.
// Negative n is treated as zero.
func topFiles(records []FileRecord, n int) []FileRecord {
	if n < 0 {
		n = 0
	}
	sorted := byLinesDesc(nonEmpty(records))
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// bottomFiles returns up to n non-empty records with the lowest line counts.
// Negative n is treated as zero.
func bottomFiles(records []FileRecord, n int) []FileRecord {
	if n < 0 {
		n = 0
	}
	sorted := nonEmpty(records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Lines != sorted[j].Lines {
			return sorted[i].Lines < sorted[j].Lines
		}
		return strings.ToLower(sorted[i].Path) < strings.ToLower(sorted[j].Path)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func nonEmpty(records []FileRecord) []FileRecord {
	kept := make([]FileRecord, 0, len(records))
	for _, rec := range records {
		if rec.Lines > 0 {
			kept = append(kept, rec)
		}
	}
	return kept
}

// rankedTable renders a Rank/File/Lines/Size table for the largest and
// smallest views.
func rankedTable(records []FileRecord) string {
	if len(records) == 0 {
		return "*No non-empty files found.*"
	}

	rows := []string{
		"| Rank | File | Lines | Size (KB) |",
		"|------|------|-------|-----------|",
	}
	for i, rec := range records {
		rows = append(rows, fmt.Sprintf("| %d | `%s` | %s | %.1f |",
			i+1, rec.Path, humanize.Comma(int64(rec.Lines)), rec.SizeKB()))
	}
	return strings.Join(rows, "\n")
}

// inventoryTable renders the complete file list sorted by line count
// descending then filename.
func inventoryTable(records []FileRecord, withTokens bool) string {
	if len(records) == 0 {
		return "*No files found matching the criteria.*"
	}

	header := "| File | Extension | Lines | Size (KB) |"
	separator := "|------|-----------|-------|-----------|"
	if withTokens {
		header = "| File | Extension | Lines | Size (KB) | Tokens |"
		separator = "|------|-----------|-------|-----------|--------|"
	}

	rows := []string{header, separator}
	for _, rec := range byLinesDesc(records) {
		if withTokens {
			rows = append(rows, fmt.Sprintf("| `%s` | %s | %s | %.1f | %s |",
				rec.Path, rec.Ext, humanize.Comma(int64(rec.Lines)), rec.SizeKB(),
				humanize.Comma(int64(rec.Tokens))))
		} else {
			rows = append(rows, fmt.Sprintf("| `%s` | %s | %s | %.1f |",
				rec.Path, rec.Ext, humanize.Comma(int64(rec.Lines)), rec.SizeKB()))
		}
	}
	return strings.Join(rows, "\n")
}

// exclusionsSection lists the configured categories and skipped directories.
func exclusionsSection(rules *SkipRules) string {
	var b strings.Builder
	b.WriteString("## Excluded File Types and Directories\n\n")

	for _, category := range rules.CategoryNames() {
		fmt.Fprintf(&b, "### %s\n", category)
		exts := make([]string, len(rules.Categories[category]))
		copy(exts, rules.Categories[category])
		sort.Strings(exts)
		for i, ext := range exts {
			exts[i] = fmt.Sprintf("`%s`", ext)
		}
		b.WriteString(strings.Join(exts, ", "))
		b.WriteString("\n\n")
	}

	b.WriteString("### Excluded Directories\n")
	dirs := rules.SortedDirs()
	quoted := make([]string, len(dirs))
	for i, d := range dirs {
		quoted[i] = fmt.Sprintf("`%s`", d)
	}
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString("\n\n")
	b.WriteString("*Note: The scan also excludes hidden files (names starting with a period), `__init__.py`, and `desktop.ini` files.*")
	return b.String()
}
