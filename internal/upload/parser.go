// Package upload parses uploaded bill catalogue files.
//
// Two formats are accepted: a JSON array of bill records, and CSV with a
// header row. A parse failure rejects the whole file so the current
// catalogue is never partially overwritten.
package upload

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile dispatches on the file extension and returns the parsed bills.
func ParseFile(filename string, data []byte) ([]core.Bill, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return ParseJSON(data)
	case ".csv":
		return ParseCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedExt, filepath.Ext(filename))
	}
}

// ParseJSON decodes a JSON array of bill records. Amounts and dates use the
// lenient wire codecs from core, so a null amount or date does not reject
// the record.
func ParseJSON(data []byte) ([]core.Bill, error) {
	data = bytes.TrimPrefix(bytes.TrimSpace(data), utf8BOM)
	var bills []core.Bill
	if err := json.Unmarshal(data, &bills); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidUpload, err)
	}
	return bills, nil
}

// ParseCSV decodes a CSV file with a header row. The amount and day columns
// are coerced to numbers; empty or non-numeric cells become zero values.
// A leading byte-order mark is stripped before parsing.
func ParseCSV(data []byte) ([]core.Bill, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidUpload, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", core.ErrInvalidUpload)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var bills []core.Bill
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		var b core.Bill
		for i, h := range headers {
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			switch h {
			case "name":
				b.Name = v
			case "type":
				b.Type = core.BillType(v)
			case "amount":
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					b.Amount = core.Money{Cents: core.CentsFromFloat(f)}
				}
			case "day":
				if n, err := strconv.Atoi(v); err == nil {
					b.Day = n
				}
			case "lastDate":
				if d, err := core.ParseDate(v); err == nil {
					b.LastDate = d
				}
			}
		}
		bills = append(bills, b)
	}
	return bills, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
