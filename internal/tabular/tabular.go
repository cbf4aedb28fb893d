// Package tabular reads batch inputs from and writes results to CSV and XLSX
// files.
package tabular

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Format is a tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name. The empty string is CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("tabular: unknown format %q (want csv or xlsx)", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("tabular: unsupported file type %q", filepath.Ext(path))
	}
}

// Table is a header row plus data rows.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Companies lays out company suggestions one per row.
func Companies(cs []model.Company) Table {
	t := Table{
		Name:    "Companies",
		Headers: []string{"Name", "Description", "Relevance", "Estimated Employees", "Location", "Industry", "Website", "LinkedIn", "Source"},
	}
	for _, c := range cs {
		t.Rows = append(t.Rows, []string{
			c.Name, c.Description, string(c.Relevance), c.EstimatedEmployees,
			c.Location, c.Industry, c.Website, c.LinkedInURL, string(c.Source),
		})
	}
	return t
}

// Employees lays out employee contacts one per row.
func Employees(es []model.Employee) Table {
	t := Table{
		Name:    "Employees",
		Headers: []string{"Name", "Title", "Company", "Location", "Relevance", "LinkedIn", "Source"},
	}
	for _, e := range es {
		t.Rows = append(t.Rows, []string{
			e.Name, e.Title, e.Company, e.Location, string(e.Relevance), e.LinkedInURL, string(e.Source),
		})
	}
	return t
}

// EmailGuesses lays out email guesses one per row. Alternatives are joined
// with "; ".
func EmailGuesses(gs []model.EmailGuess) Table {
	t := Table{
		Name:    "Emails",
		Headers: []string{"Email", "Confidence", "Format", "Alternatives", "Source"},
	}
	for _, g := range gs {
		t.Rows = append(t.Rows, []string{
			g.Email,
			strconv.FormatFloat(g.Confidence, 'f', 2, 64),
			g.FormatType,
			strings.Join(g.AlternativeEmails, "; "),
			string(g.Source),
		})
	}
	return t
}

// Searches lays out search history records. Criteria and results are left
// out; ResultCount summarizes them.
func Searches(rs []model.SearchRecord) Table {
	t := Table{
		Name:    "Searches",
		Headers: []string{"ID", "Kind", "Created At", "Results", "Used Web Search", "Error"},
	}
	for _, r := range rs {
		t.Rows = append(t.Rows, []string{
			r.ID,
			string(r.Kind),
			r.CreatedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(r.ResultCount),
			strconv.FormatBool(r.UsedWebSearch),
			r.Error,
		})
	}
	return t
}
