package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *ScanResult {
	records := []FileRecord{
		{Path: "app/main.py", Ext: "py", Lines: 120, Size: 4096},
		{Path: "app/util.py", Ext: "py", Lines: 45, Size: 1536},
		{Path: "empty.py", Ext: "py", Lines: 0, Size: 0},
		{Path: "scripts/run.sh", Ext: "sh", Lines: 12, Size: 300},
		{Path: "server.go", Ext: "go", Lines: 300, Size: 8192},
	}
	total := 0
	for _, rec := range records {
		total += rec.Lines
	}
	return &ScanResult{
		Root:       "/proj",
		TotalFiles: len(records),
		TotalLines: total,
		Records:    records,
	}
}

func TestBuildReportSections(t *testing.T) {
	report := BuildReport(sampleResult(), DefaultSkipRules(), ReportOptions{TopN: 10})

	for _, section := range []string{
		"# Line Count Report",
		"*Generated at: `/proj`*",
		"## File Statistics",
		"## Largest Files",
		"## Smallest Files",
		"## Complete File List",
		"## Excluded File Types and Directories",
		"### Excluded Directories",
	} {
		assert.Contains(t, report, section)
	}

	assert.Contains(t, report, "- **Total files analyzed:** 5")
	assert.Contains(t, report, "- **Total lines of code:** 477")
}

func TestBuildReportGeneratedAtOverride(t *testing.T) {
	report := BuildReport(sampleResult(), DefaultSkipRules(), ReportOptions{
		TopN:        10,
		GeneratedAt: "https://example.com/repo.git",
	})
	assert.Contains(t, report, "*Generated at: `https://example.com/repo.git`*")
	assert.NotContains(t, report, "*Generated at: `/proj`*")
}

func TestBuildReportCommaFormatting(t *testing.T) {
	result := &ScanResult{
		Root:       "/proj",
		TotalFiles: 1,
		TotalLines: 1234567,
		Records: []FileRecord{
			{Path: "huge.py", Ext: "py", Lines: 1234567, Size: 2048},
		},
	}
	report := BuildReport(result, DefaultSkipRules(), ReportOptions{TopN: 10})
	assert.Contains(t, report, "- **Total lines of code:** 1,234,567")
	assert.Contains(t, report, "| `huge.py` | py | 1,234,567 | 2.0 |")
}

func TestTopFiles(t *testing.T) {
	records := sampleResult().Records

	top := topFiles(records, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "server.go", top[0].Path)
	assert.Equal(t, "app/main.py", top[1].Path)
	assert.Equal(t, "app/util.py", top[2].Path)

	// Top-N never exceeds the number of non-empty files.
	all := topFiles(records, 50)
	assert.Len(t, all, 4)
	for _, rec := range all {
		assert.Positive(t, rec.Lines)
	}
}

func TestTopFilesTieBreak(t *testing.T) {
	records := []FileRecord{
		{Path: "b.py", Lines: 10},
		{Path: "A.py", Lines: 10},
		{Path: "c.py", Lines: 10},
	}
	top := topFiles(records, 3)
	assert.Equal(t, []string{"A.py", "b.py", "c.py"}, recordPaths(top))
}

func TestBottomFiles(t *testing.T) {
	records := sampleResult().Records

	bottom := bottomFiles(records, 2)
	require.Len(t, bottom, 2)
	assert.Equal(t, "scripts/run.sh", bottom[0].Path)
	assert.Equal(t, "app/util.py", bottom[1].Path)

	// Empty files never appear in the smallest view.
	for _, rec := range bottomFiles(records, 50) {
		assert.Positive(t, rec.Lines)
	}
}

func TestInventoryIncludesEmptyFiles(t *testing.T) {
	report := BuildReport(sampleResult(), DefaultSkipRules(), ReportOptions{TopN: 10})

	inventory := sectionOf(t, report, "## Complete File List")
	assert.Contains(t, inventory, "| `empty.py` | py | 0 | 0.0 |")

	largest := sectionOf(t, report, "## Largest Files")
	assert.NotContains(t, largest, "empty.py")
	smallest := sectionOf(t, report, "## Smallest Files")
	assert.NotContains(t, smallest, "empty.py")
}

func TestInventoryOrder(t *testing.T) {
	report := BuildReport(sampleResult(), DefaultSkipRules(), ReportOptions{TopN: 10})
	inventory := sectionOf(t, report, "## Complete File List")

	order := []string{"server.go", "app/main.py", "app/util.py", "scripts/run.sh", "empty.py"}
	last := -1
	for _, path := range order {
		idx := strings.Index(inventory, "`"+path+"`")
		require.GreaterOrEqual(t, idx, 0, "missing %s in inventory", path)
		assert.Greater(t, idx, last, "%s out of order", path)
		last = idx
	}
}

func TestTopAndBottomFilesNegativeN(t *testing.T) {
	records := sampleResult().Records

	assert.Empty(t, topFiles(records, -1))
	assert.Empty(t, bottomFiles(records, -1))

	// A negative --top-n (flag or config) must not crash report rendering.
	report := BuildReport(sampleResult(), DefaultSkipRules(), ReportOptions{TopN: -1})
	assert.Contains(t, report, "*No non-empty files found.*")
}

func TestRankedTableEmpty(t *testing.T) {
	assert.Equal(t, "*No non-empty files found.*", rankedTable(nil))
}

func TestInventoryTableEmpty(t *testing.T) {
	assert.Equal(t, "*No files found matching the criteria.*", inventoryTable(nil, false))
}

func TestBuildReportTokensColumn(t *testing.T) {
	result := sampleResult()
	for i := range result.Records {
		result.Records[i].Tokens = result.Records[i].Lines * 8
	}

	report := BuildReport(result, DefaultSkipRules(), ReportOptions{TopN: 10, WithTokens: true})
	assert.Contains(t, report, "| File | Extension | Lines | Size (KB) | Tokens |")
	assert.Contains(t, report, "- **Total tokens:** 3,816")

	plain := BuildReport(result, DefaultSkipRules(), ReportOptions{TopN: 10})
	assert.NotContains(t, plain, "Tokens")
}

func TestBuildReportIdempotent(t *testing.T) {
	result := sampleResult()
	rules := DefaultSkipRules()
	opts := ReportOptions{TopN: 10}

	first := BuildReport(result, rules, opts)
	second := BuildReport(result, rules, opts)
	assert.Equal(t, first, second)
}

func TestExclusionsSectionListsConfiguredRules(t *testing.T) {
	report := BuildReport(sampleResult(), DefaultSkipRules(), ReportOptions{TopN: 10})
	exclusions := sectionOf(t, report, "## Excluded File Types and Directories")

	assert.Contains(t, exclusions, "### Document Files")
	assert.Contains(t, exclusions, "`.md`")
	assert.Contains(t, exclusions, "`node_modules`")
	assert.Contains(t, exclusions, "`__init__.py`")
}

// sectionOf returns the report text from the given heading up to the next
// top-level heading.
func sectionOf(t *testing.T, report, heading string) string {
	t.Helper()
	start := strings.Index(report, heading)
	require.GreaterOrEqual(t, start, 0, "missing section %q", heading)
	rest := report[start+len(heading):]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
