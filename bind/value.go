package bind

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
)

// Kind discriminates the active variant of a Value.
type Kind uint8

// Supported semantic kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt16
	KindInt32
	KindInt64
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindChar // fixed-capacity string, trailing spaces trimmed on fetch
	KindString
	KindWideString
	KindText
	KindDate
	KindTime // time of day
	KindDateTime
	KindNumeric
	KindGUID
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindWideString:
		return "wide string"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	case KindNumeric:
		return "numeric"
	case KindGUID:
		return "guid"
	}
	return "unknown"
}

// Value is a discriminated union over the supported semantic kinds.
// Exactly one variant is active at a time. A Value is constructed
// immediately before a bind call; for variable-length output it is
// mutated in place while truncated data is refetched.
type Value struct {
	kind  Kind
	null  bool
	i     int64
	u     uint64
	f     float64
	buf   []byte   // Char/String/Text storage, UTF-8
	wbuf  []uint16 // WideString storage, UTF-16 code units
	fixed int      // declared capacity in bytes for Char
	t     time.Time
	num   Numeric
	guid  uuid.UUID
}

// NewNull returns a NULL value of the given kind.
func NewNull(k Kind) *Value {
	return &Value{kind: k, null: true}
}

// NewBool returns a boolean value.
func NewBool(v bool) *Value {
	val := &Value{kind: KindBool}
	if v {
		val.i = 1
	}
	return val
}

// NewInt16 returns a 16-bit signed integer value.
func NewInt16(v int16) *Value { return &Value{kind: KindInt16, i: int64(v)} }

// NewInt32 returns a 32-bit signed integer value.
func NewInt32(v int32) *Value { return &Value{kind: KindInt32, i: int64(v)} }

// NewInt64 returns a 64-bit signed integer value.
func NewInt64(v int64) *Value { return &Value{kind: KindInt64, i: v} }

// NewUint16 returns a 16-bit unsigned integer value.
func NewUint16(v uint16) *Value { return &Value{kind: KindUint16, u: uint64(v)} }

// NewUint32 returns a 32-bit unsigned integer value.
func NewUint32(v uint32) *Value { return &Value{kind: KindUint32, u: uint64(v)} }

// NewUint64 returns a 64-bit unsigned integer value.
func NewUint64(v uint64) *Value { return &Value{kind: KindUint64, u: v} }

// NewFloat32 returns a 32-bit floating point value.
func NewFloat32(v float32) *Value { return &Value{kind: KindFloat32, f: float64(v)} }

// NewFloat64 returns a 64-bit floating point value.
func NewFloat64(v float64) *Value { return &Value{kind: KindFloat64, f: v} }

// NewChar returns a fixed-capacity string value. capacity is the declared
// column width in bytes; s is truncated to it when longer.
func NewChar(s string, capacity int) *Value {
	b := []byte(s)
	if capacity > 0 && len(b) > capacity {
		b = b[:capacity]
	}
	return &Value{kind: KindChar, buf: b, fixed: capacity}
}

// NewString returns a growable string value.
func NewString(s string) *Value { return &Value{kind: KindString, buf: []byte(s)} }

// NewWideString returns a wide (UTF-16) string value.
func NewWideString(s string) *Value {
	return &Value{kind: KindWideString, wbuf: utf16.Encode([]rune(s))}
}

// NewText returns a large string value.
func NewText(s string) *Value { return &Value{kind: KindText, buf: []byte(s)} }

// NewDate returns a date value; the time-of-day part of t is ignored.
func NewDate(t time.Time) *Value { return &Value{kind: KindDate, t: t} }

// NewTime returns a time-of-day value; the date part of t is ignored.
func NewTime(t time.Time) *Value { return &Value{kind: KindTime, t: t} }

// NewDateTime returns a nanosecond-capable date-time value.
func NewDateTime(t time.Time) *Value { return &Value{kind: KindDateTime, t: t} }

// NewNumericValue returns a fixed-point numeric value.
func NewNumericValue(n Numeric) *Value { return &Value{kind: KindNumeric, num: n} }

// NewGUID returns a GUID value.
func NewGUID(g uuid.UUID) *Value { return &Value{kind: KindGUID, guid: g} }

// NewFromAny converts a native Go value into a Value. Supported inputs
// are nil, bool, the signed/unsigned integer widths, float32/float64,
// string, time.Time, uuid.UUID, Numeric and *Value (passed through).
func NewFromAny(v any) (*Value, error) {
	switch x := v.(type) {
	case nil:
		return NewNull(KindNull), nil
	case *Value:
		return x, nil
	case bool:
		return NewBool(x), nil
	case int:
		return NewInt64(int64(x)), nil
	case int16:
		return NewInt16(x), nil
	case int32:
		return NewInt32(x), nil
	case int64:
		return NewInt64(x), nil
	case uint16:
		return NewUint16(x), nil
	case uint32:
		return NewUint32(x), nil
	case uint64:
		return NewUint64(x), nil
	case float32:
		return NewFloat32(x), nil
	case float64:
		return NewFloat64(x), nil
	case string:
		return NewString(x), nil
	case time.Time:
		return NewDateTime(x), nil
	case uuid.UUID:
		return NewGUID(x), nil
	case Numeric:
		return NewNumericValue(x), nil
	}
	return nil, fmt.Errorf("sqlkit: cannot bind value of type %T", v)
}

// Kind returns the active variant kind.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is SQL NULL.
func (v *Value) IsNull() bool { return v.null }

// Bool returns the boolean content.
func (v *Value) Bool() bool { return v.i != 0 }

// Int64 returns the signed integer content, whatever the declared width.
func (v *Value) Int64() int64 { return v.i }

// Uint64 returns the unsigned integer content.
func (v *Value) Uint64() uint64 { return v.u }

// Float64 returns the floating point content.
func (v *Value) Float64() float64 { return v.f }

// String returns the string content. Wide strings are decoded from their
// UTF-16 storage.
func (v *Value) String() string {
	if v.kind == KindWideString {
		return string(utf16.Decode(v.wbuf))
	}
	return string(v.buf)
}

// Len returns the logical size of a string value: bytes for narrow
// kinds, UTF-16 code units for wide strings.
func (v *Value) Len() int {
	if v.kind == KindWideString {
		return len(v.wbuf)
	}
	return len(v.buf)
}

// Capacity returns the declared capacity of a fixed-capacity string, or
// zero for other kinds.
func (v *Value) Capacity() int { return v.fixed }

// Time returns the temporal content.
func (v *Value) Time() time.Time { return v.t }

// Numeric returns the fixed-point content.
func (v *Value) Numeric() Numeric { return v.num }

// GUID returns the GUID content.
func (v *Value) GUID() uuid.UUID { return v.guid }

// Equal reports whether two values have the same kind, nullness and
// content. Numeric content compares sign, scale and raw bytes, not
// numeric magnitude.
func (v *Value) Equal(o *Value) bool {
	if v.kind != o.kind || v.null != o.null {
		return false
	}
	if v.null {
		return true
	}
	switch v.kind {
	case KindBool, KindInt16, KindInt32, KindInt64:
		return v.i == o.i
	case KindUint16, KindUint32, KindUint64:
		return v.u == o.u
	case KindFloat32, KindFloat64:
		return v.f == o.f
	case KindChar, KindString, KindText:
		return string(v.buf) == string(o.buf)
	case KindWideString:
		if len(v.wbuf) != len(o.wbuf) {
			return false
		}
		for i := range v.wbuf {
			if v.wbuf[i] != o.wbuf[i] {
				return false
			}
		}
		return true
	case KindDate:
		y1, m1, d1 := v.t.Date()
		y2, m2, d2 := o.t.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case KindTime:
		return v.t.Hour() == o.t.Hour() && v.t.Minute() == o.t.Minute() &&
			v.t.Second() == o.t.Second() && v.t.Nanosecond() == o.t.Nanosecond()
	case KindDateTime:
		return v.t.Equal(o.t)
	case KindNumeric:
		return v.num.Equal(o.num)
	case KindGUID:
		return v.guid == o.guid
	}
	return v.kind == KindNull
}

// Inspect returns a human-readable rendering for logging and debugging.
func (v *Value) Inspect() string {
	if v.null {
		return "NULL"
	}
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindUint16, KindUint32, KindUint64:
		return strconv.FormatUint(v.u, 10)
	case KindFloat32, KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindChar, KindString, KindText:
		return strconv.Quote(string(v.buf))
	case KindWideString:
		return "N" + strconv.Quote(v.String())
	case KindDate:
		return v.t.Format("2006-01-02")
	case KindTime:
		return v.t.Format("15:04:05.999999999")
	case KindDateTime:
		return v.t.Format("2006-01-02 15:04:05.999999999")
	case KindNumeric:
		return v.num.String()
	case KindGUID:
		return v.guid.String()
	}
	return "NULL"
}

// setNull clears the content and marks the value NULL.
func (v *Value) setNull() {
	v.null = true
	v.buf = v.buf[:0]
	v.wbuf = v.wbuf[:0]
}

func (v *Value) setBool(b bool) {
	v.null = false
	v.i = 0
	if b {
		v.i = 1
	}
}

func (v *Value) setInt(i int64) {
	v.null = false
	v.i = i
}

func (v *Value) setUint(u uint64) {
	v.null = false
	v.u = u
}

func (v *Value) setFloat(f float64) {
	v.null = false
	v.f = f
}

func (v *Value) setBytes(b []byte) {
	v.null = false
	v.buf = b
}

func (v *Value) setWide(w []uint16) {
	v.null = false
	v.wbuf = w
}

func (v *Value) setTime(t time.Time) {
	v.null = false
	v.t = t
}

func (v *Value) setNumeric(n Numeric) {
	v.null = false
	v.num = n
}

func (v *Value) setGUID(g uuid.UUID) {
	v.null = false
	v.guid = g
}
