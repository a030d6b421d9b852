// Package codec owns the flat-row storage encodings used by the client
// repositories: list-valued fields persisted as JSON arrays of strings, and
// optional fixed-width numerics persisted with reserved sentinel values.
//
// Nothing outside the repositories touches these encodings; every other
// layer works with typed optional and slice values.
package codec

import (
	"database/sql"
	"encoding/json"
	"math"
	"time"
)

// IntAbsent is the sentinel stored for an absent optional integer.
// It is reserved for columns whose legitimate domain is non-negative
// (counts, minutes, ISO); never use it for a field that can hold -1.
const IntAbsent int64 = -1

// EncodeStringList serializes a list field as a JSON array of strings.
// A nil or empty list encodes to "[]".
func EncodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		// []string cannot fail to marshal; keep the column well-formed anyway.
		return "[]"
	}
	return string(b)
}

// DecodeStringList deserializes a stored list field. An empty or malformed
// serialization always decodes to an empty list; decode never fails the
// caller.
func DecodeStringList(s string) []string {
	if s == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

// EncodeOptionalInt maps an optional non-negative integer onto an INTEGER
// column, using IntAbsent for nil.
func EncodeOptionalInt(v *int) int64 {
	if v == nil {
		return IntAbsent
	}
	return int64(*v)
}

// DecodeOptionalInt is the inverse of EncodeOptionalInt. The sentinel (and
// any other negative value recorded by legacy rows) decodes to nil.
func DecodeOptionalInt(v int64) *int {
	if v < 0 {
		return nil
	}
	i := int(v)
	return &i
}

// EncodeOptionalFloat maps an optional float onto a REAL column, using NaN
// for nil. NaN is outside every legitimate domain we store (headings,
// elevations, azimuths, temperatures), so it cannot collide.
func EncodeOptionalFloat(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// DecodeOptionalFloat is the inverse of EncodeOptionalFloat.
func DecodeOptionalFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	f := v
	return &f
}

// NullFloat converts a scanned nullable REAL column to an optional float.
// SQLite quietly turns NaN into NULL, so reads go through sql.NullFloat64.
func NullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid || math.IsNaN(v.Float64) {
		return nil
	}
	f := v.Float64
	return &f
}

// EncodeOptionalTime maps an optional timestamp onto a nullable INTEGER
// column holding Unix seconds (UTC).
func EncodeOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// DecodeOptionalTime is the inverse of EncodeOptionalTime.
func DecodeOptionalTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

// EncodeTime maps a required timestamp onto an INTEGER column.
func EncodeTime(t time.Time) int64 {
	return t.Unix()
}

// DecodeTime is the inverse of EncodeTime.
func DecodeTime(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}
