package dataset

import (
	"strconv"
	"time"
)

// Kind identifies the type of a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindTime
)

// Value is a single typed cell of a raw table. The zero value is null.
// Numeric operations on missing values stay missing; no computation
// in the engine ever turns a null into a NaN or a zero.
type Value struct {
	kind Kind
	num  float64
	str  string
	t    time.Time
}

// Null returns the missing value.
func Null() Value {
	return Value{}
}

// Number wraps a float64 cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// String wraps a string cell. An empty string is stored as null.
func String(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindString, str: s}
}

// Time wraps a date cell.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindTime, t: t}
}

// Kind returns the type tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Number returns the numeric content, false when the cell is not a number.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String returns the string content, false when the cell is not a string.
func (v Value) String() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Time returns the date content, false when the cell is not a date.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// Text renders the value for display. Nulls render as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindTime:
		return v.t.Format("2006-01-02")
	default:
		return ""
	}
}

// Key returns a canonical representation used for join and group
// equality. Nulls map to a dedicated sentinel so they form their own
// bucket and never collide with real values.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return "s:" + v.str
	case KindTime:
		return "t:" + v.t.Format("2006-01-02T15:04:05")
	default:
		return "\x00null"
	}
}
