package tabular

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/outreach-cli/internal/model"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{" xlsx ", FormatXLSX, false},
		{"json", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/tmp/out.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = FormatFromPath("queries.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromPath("queries.pdf")
	assert.Error(t, err)
}

func sampleCompanies() []model.Company {
	return []model.Company{
		{
			Name: "Acme, Inc.", Description: `Makes "everything"`, Relevance: model.CompanyPerfectMatch,
			EstimatedEmployees: "50-200", Location: "Austin", Industry: "Retail",
			Website: "https://acme.io", LinkedInURL: "https://www.linkedin.com/company/acme", Source: model.SourceWebSearch,
		},
		{
			Name: "Globex", Description: "Logistics", Relevance: model.CompanyGoodMatch,
			EstimatedEmployees: "1000+", Location: "Paris", Industry: "Logistics",
			Website: "https://globex.fr", LinkedInURL: "https://www.linkedin.com/company/globex", Source: model.SourceAIGenerated,
		},
	}
}

func TestWriteCSV_Companies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, Companies(sampleCompanies())))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Description,Relevance,Estimated Employees,Location,Industry,Website,LinkedIn,Source", lines[0])
	assert.Equal(t, `"Acme, Inc.","Makes ""everything""",Perfect Match,50-200,Austin,Retail,https://acme.io,https://www.linkedin.com/company/acme,web_search`, lines[1])
}

func TestCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	table := Companies(sampleCompanies())
	require.NoError(t, WriteCSV(&buf, table))

	rows, err := ReadCSV(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Headers, rows[0])
	assert.Equal(t, table.Rows, rows[1:])
}

func TestXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.xlsx")
	table := Companies(sampleCompanies())
	require.NoError(t, WriteFile(path, table))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "Companies", f.Sheets[0].Name)

	rows, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Headers, rows[0])
	assert.Equal(t, table.Rows, rows[1:])
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Format("pdf"), Table{}))
}

func TestEmployees_And_EmailGuesses(t *testing.T) {
	et := Employees([]model.Employee{{Name: "Marie Curie", Title: "Head of Data", Company: "Acme", Relevance: model.EmployeeHighlyRelevant, Source: model.SourceWebSearch}})
	assert.Equal(t, []string{"Marie Curie", "Head of Data", "Acme", "", "Highly Relevant", "", "web_search"}, et.Rows[0])

	gt := EmailGuesses([]model.EmailGuess{{Email: "jane.doe@pwc.com", Confidence: 0.75, FormatType: "first.last", AlternativeEmails: []string{"jdoe@pwc.com", "jane@pwc.com"}, Source: model.SourceFallback}})
	assert.Equal(t, []string{"jane.doe@pwc.com", "0.75", "first.last", "jdoe@pwc.com; jane@pwc.com", "fallback"}, gt.Rows[0])
}

func TestSearches(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	table := Searches([]model.SearchRecord{{ID: "abc", Kind: model.KindEmployees, CreatedAt: created, ResultCount: 4, UsedWebSearch: true}})
	assert.Equal(t, []string{"abc", "employees", "2026-03-01T08:30:00Z", "4", "true", ""}, table.Rows[0])
}

func TestReadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.csv")
	content := "Company, Job Title ,location\n# comment line\nAcme,Data Analyst,\"Austin, TX\"\n,,\nGlobex,Engineer\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Company", "Job Title", "location"},
		{"Acme", "Data Analyst", "Austin, TX"},
		{"Globex", "Engineer"},
	}, rows)

	recs := Records(rows)
	assert.Equal(t, []map[string]string{
		{"company": "Acme", "jobtitle": "Data Analyst", "location": "Austin, TX"},
		{"company": "Globex", "jobtitle": "Engineer", "location": ""},
	}, recs)
}

func TestReadCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadCSV(ctx, strings.NewReader("a,b\n"))
	assert.Error(t, err)
}

func TestRecords_HeaderOnly(t *testing.T) {
	assert.Nil(t, Records([][]string{{"company"}}))
	assert.Nil(t, Records(nil))
}

func TestHeaderKey(t *testing.T) {
	assert.Equal(t, "jobtitle", HeaderKey(" Job_Title "))
	assert.Equal(t, "fullname", HeaderKey("Full-Name"))
}
