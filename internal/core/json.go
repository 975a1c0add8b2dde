// JSON codecs for the wire shapes consumed from uploads and produced by the
// API: amounts travel as decimal numbers, dates as YYYY-MM-DD strings with
// null standing in for an absent date.
package core

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var jsonNull = []byte("null")

// MarshalJSON encodes the amount as a plain decimal number (dollars).
func (m Money) MarshalJSON() ([]byte, error) {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		s = "-" + s
	}
	return []byte(s), nil
}

// UnmarshalJSON accepts a number, a numeric string, or null (treated as
// zero, matching the lenient coercion applied to uploaded records).
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		m.Cents = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		m.Cents = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		m.Cents = 0
		return nil
	}
	m.Cents = CentsFromFloat(v)
	return nil
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return jsonNull, nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", an RFC 3339 timestamp, an empty
// string, or null. Parsed values are truncated to midnight.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		d.Time = time.Time{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDate parses a date string in YYYY-MM-DD format, falling back to
// RFC 3339 for records exported with full timestamps.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: Midnight(t)}, nil
}
