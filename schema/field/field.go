// Package field defines the dialect-neutral column type tags used by
// table declarations. A TypeDef is the single source of truth a dialect
// formatter maps to concrete SQL type syntax.
package field

import "fmt"

// Type is the closed set of dialect-neutral column types.
type Type uint8

// Column types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeChar     // fixed-width character
	TypeVarchar  // variable-width character
	TypeNChar    // fixed-width wide character
	TypeNVarchar // variable-width wide character
	TypeText
	TypeSmallInt
	TypeInt
	TypeBigInt
	TypeReal
	TypeDecimal
	TypeDate
	TypeTime
	TypeDateTime
	TypeTimestamp
	TypeGUID
)

var typeNames = [...]string{
	TypeInvalid:   "invalid",
	TypeBool:      "bool",
	TypeChar:      "char",
	TypeVarchar:   "varchar",
	TypeNChar:     "nchar",
	TypeNVarchar:  "nvarchar",
	TypeText:      "text",
	TypeSmallInt:  "smallint",
	TypeInt:       "int",
	TypeBigInt:    "bigint",
	TypeReal:      "real",
	TypeDecimal:   "decimal",
	TypeDate:      "date",
	TypeTime:      "time",
	TypeDateTime:  "datetime",
	TypeTimestamp: "timestamp",
	TypeGUID:      "guid",
}

// String returns the type name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("invalid(%d)", t)
}

// Valid reports whether the type is a known column type.
func (t Type) Valid() bool {
	return t > TypeInvalid && int(t) < len(typeNames)
}

// Sized reports whether the type carries a width argument.
func (t Type) Sized() bool {
	switch t {
	case TypeChar, TypeVarchar, TypeNChar, TypeNVarchar:
		return true
	}
	return false
}

// TypeDef is a complete column type definition: the type tag plus its
// width or precision arguments where the type takes them.
type TypeDef struct {
	Type      Type
	Size      int // character width for sized types
	Precision int // total digits for decimal
	Scale     int // fractional digits for decimal
}

// Bool returns a boolean column definition.
func Bool() TypeDef { return TypeDef{Type: TypeBool} }

// Char returns a fixed-width character column definition.
func Char(size int) TypeDef { return TypeDef{Type: TypeChar, Size: size} }

// Varchar returns a variable-width character column definition.
func Varchar(size int) TypeDef { return TypeDef{Type: TypeVarchar, Size: size} }

// NChar returns a fixed-width wide character column definition.
func NChar(size int) TypeDef { return TypeDef{Type: TypeNChar, Size: size} }

// NVarchar returns a variable-width wide character column definition.
func NVarchar(size int) TypeDef { return TypeDef{Type: TypeNVarchar, Size: size} }

// Text returns a large string column definition. Size is advisory; most
// dialects ignore it, Oracle uses it to pick VARCHAR2 over CLOB.
func Text(size int) TypeDef { return TypeDef{Type: TypeText, Size: size} }

// SmallInt returns a 16-bit integer column definition.
func SmallInt() TypeDef { return TypeDef{Type: TypeSmallInt} }

// Int returns a 32-bit integer column definition.
func Int() TypeDef { return TypeDef{Type: TypeInt} }

// BigInt returns a 64-bit integer column definition.
func BigInt() TypeDef { return TypeDef{Type: TypeBigInt} }

// Real returns a floating point column definition.
func Real() TypeDef { return TypeDef{Type: TypeReal} }

// Decimal returns a fixed-point column definition.
func Decimal(precision, scale int) TypeDef {
	return TypeDef{Type: TypeDecimal, Precision: precision, Scale: scale}
}

// Date returns a date column definition.
func Date() TypeDef { return TypeDef{Type: TypeDate} }

// Time returns a time-of-day column definition.
func Time() TypeDef { return TypeDef{Type: TypeTime} }

// DateTime returns a date-time column definition.
func DateTime() TypeDef { return TypeDef{Type: TypeDateTime} }

// Timestamp returns a timestamp column definition.
func Timestamp() TypeDef { return TypeDef{Type: TypeTimestamp} }

// GUID returns a GUID column definition.
func GUID() TypeDef { return TypeDef{Type: TypeGUID} }
