package google

import (
	"fmt"
	"strings"

	"folio/internal/core"
)

// recordsFromGrid maps data rows onto the first row's header names.
// Every non-empty header gets a key in every record; cells the sheet
// left short come back as "". Rich cell values (numbers the API kept
// numeric) pass through untouched for the loaders to interpret.
func recordsFromGrid(values [][]any) []core.Row {
	if len(values) == 0 {
		return []core.Row{}
	}

	headers := toStrings(values[0])
	records := make([]core.Row, 0, len(values)-1)
	for _, row := range values[1:] {
		rec := make(core.Row, len(headers))
		for i, name := range headers {
			if name == "" {
				continue
			}
			if i < len(row) && row[i] != nil {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func toStrings(row []any) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		if cell == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(cell))
	}
	return out
}

// colName converts a 1-based column number to its A1 letter form
// (1 => A, 26 => Z, 27 => AA).
func colName(col int) string {
	if col < 1 {
		return "A"
	}
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}
