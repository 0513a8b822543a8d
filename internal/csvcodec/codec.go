// Package csvcodec reads and writes the catalog CSV dialect.
//
// The dialect is close to RFC 4180 but more forgiving: quotes may open in
// the middle of a field, blank lines are skipped, and rows are zipped
// against the header without length checks. encoding/csv rejects or
// reshapes several of those inputs, so the scanner is hand-written.
package csvcodec

import "strings"

// ParseRows splits text into rows of raw fields.
func ParseRows(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		cell     strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if c == '"' {
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				cell.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
			continue
		}

		if inQuotes {
			cell.WriteByte(c)
			continue
		}

		switch c {
		case ',':
			row = append(row, cell.String())
			cell.Reset()
		case '\r', '\n':
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			row = append(row, cell.String())
			cell.Reset()
			if len(row) > 1 || row[0] != "" {
				rows = append(rows, row)
			}
			row = nil
		default:
			cell.WriteByte(c)
		}
	}

	if cell.Len() > 0 || len(row) > 0 {
		row = append(row, cell.String())
		rows = append(rows, row)
	}

	return rows
}

// ParseWithHeader returns the header row and every following row keyed by
// header name. Short rows are padded with "", long rows lose their extra
// fields.
func ParseWithHeader(text string) ([]string, []map[string]string) {
	rows := ParseRows(text)
	if len(rows) == 0 {
		return nil, []map[string]string{}
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, values := range rows[1:] {
		entry := make(map[string]string, len(header))
		for idx, name := range header {
			if idx < len(values) {
				entry[name] = values[idx]
			} else {
				entry[name] = ""
			}
		}
		records = append(records, entry)
	}
	return header, records
}

// Parse returns the data rows of text keyed by the header row.
func Parse(text string) []map[string]string {
	_, records := ParseWithHeader(text)
	return records
}

// SerializeLine renders fields as one CSV line without a terminator.
func SerializeLine(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeField(f))
	}
	return b.String()
}

// EscapeField quotes f when it holds a comma, quote or line break.
func EscapeField(f string) string {
	if !strings.ContainsAny(f, ",\"\r\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}
