package formatter

import (
	"fmt"
	"io"

	"github.com/rodaine/table"
)

// WriteTable prints each table as aligned columns preceded by its title
func WriteTable(w io.Writer, tables ...Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if t.Title != "" {
			if _, err := fmt.Fprintf(w, "%s (%d)\n", t.Title, len(t.Rows)); err != nil {
				return err
			}
		}
		headers := make([]interface{}, len(t.Headers))
		for j, h := range t.Headers {
			headers[j] = h
		}
		tbl := table.New(headers...).WithWriter(w)
		for _, row := range t.Rows {
			cells := make([]interface{}, len(row))
			for j, c := range row {
				cells[j] = c
			}
			tbl.AddRow(cells...)
		}
		tbl.Print()
	}
	return nil
}

// Write renders tables in the named format. JSON output encodes value instead
// of the tables so field names and types are preserved.
func Write(w io.Writer, format string, value any, tables ...Table) error {
	switch format {
	case "json":
		return WriteJSON(w, value)
	case "csv":
		return WriteCSV(w, tables...)
	case "table", "":
		return WriteTable(w, tables...)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
