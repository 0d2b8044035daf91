package formatter

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes the header and rows of each table; tables are separated by a blank line
func WriteCSV(w io.Writer, tables ...Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(t.Headers); err != nil {
			return err
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return err
		}
	}
	return nil
}
