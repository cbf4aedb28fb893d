package tabular

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Write encodes t to w in format f.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return eris.Errorf("tabular: unknown format %q", f)
	}
}

// WriteFile writes t to path, choosing the format from the extension.
func WriteFile(path string, t Table) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "tabular: create %s", path)
	}
	if err := Write(out, f, t); err != nil {
		_ = out.Close()
		return err
	}
	return eris.Wrapf(out.Close(), "tabular: close %s", path)
}

// WriteCSV encodes t as CSV with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return eris.Wrap(err, "csv: write rows")
	}
	return nil
}

// WriteXLSX encodes t as a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, t Table) error {
	f, err := workbook(t)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}

func workbook(t Table) (*xlsx.File, error) {
	name := t.Name
	if name == "" {
		name = "Sheet1"
	}
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: add sheet %q", name)
	}

	header := sheet.AddRow()
	for _, h := range t.Headers {
		cell := header.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		style.Font.Bold = true
		style.ApplyFont = true
		cell.SetStyle(style)
	}
	for _, r := range t.Rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	return f, nil
}
