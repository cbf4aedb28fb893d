package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadFile reads every row of a CSV or XLSX file. For workbooks only the
// first sheet is read. Blank rows are skipped.
func ReadFile(ctx context.Context, path string) ([][]string, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if f == FormatXLSX {
		return readXLSX(ctx, path)
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: open %s", path)
	}
	defer in.Close() //nolint:errcheck
	return ReadCSV(ctx, in)
}

// ReadCSV reads all rows from r. Fields are trimmed and rows may have
// differing lengths.
func ReadCSV(ctx context.Context, r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.Comment = '#'

	var rows [][]string
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		if row := trimRow(record); row != nil {
			rows = append(rows, row)
		}
	}
}

func readXLSX(ctx context.Context, path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("xlsx: %s has no sheets", path)
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "xlsx: context cancelled")
		}
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if r := trimRow(cells); r != nil {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// trimRow trims every field and returns nil for rows with no content.
func trimRow(fields []string) []string {
	blank := true
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
		if fields[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil
	}
	return fields
}

// Records pairs each data row with the header row, keyed by the lowercased
// header with spaces, dashes and underscores removed ("Job Title" and
// "job_title" both become "jobtitle"). Missing trailing fields read as "".
func Records(rows [][]string) []map[string]string {
	if len(rows) < 2 {
		return nil
	}
	keys := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		keys[i] = HeaderKey(h)
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(keys))
		for i, k := range keys {
			if k == "" {
				continue
			}
			if i < len(row) {
				rec[k] = row[i]
			} else {
				rec[k] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

var headerReplacer = strings.NewReplacer(" ", "", "_", "", "-", "")

// HeaderKey normalizes a header cell for lookup.
func HeaderKey(h string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
}
