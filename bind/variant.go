package bind

import (
	"github.com/syssam/sqlkit"
)

// FetchVariant pulls a column whose type is only known at runtime. The
// driver's column metadata decides the concrete kind to decode into.
// Source types with no supported decoding (the legacy NULL type, raw
// DECIMAL/NUMERIC without declared scale, and generic binary) are a hard
// error; nothing is decoded silently.
func FetchVariant(h Handle, col int) (*Value, error) {
	meta, st := h.ColumnMeta(col)
	if err := Error(h, st); err != nil {
		return nil, err
	}
	kind, ok := variantKind(meta)
	if !ok {
		return nil, sqlkit.NewUnsupportedTypeError(meta.Type.String(), col)
	}
	v := NewNull(kind)
	if kind == KindNumeric {
		v.num.Precision = uint8(meta.Precision)
		v.num.Scale = uint8(meta.Scale)
	}
	if kind == KindChar {
		v.fixed = meta.Size
	}
	if err := FetchValue(h, col, v); err != nil {
		return nil, err
	}
	return v, nil
}

// variantKind maps runtime column metadata to a decodable kind.
func variantKind(meta ColumnMeta) (Kind, bool) {
	switch meta.Type {
	case SQLBit:
		return KindBool, true
	case SQLSmallInt:
		return KindInt16, true
	case SQLInteger:
		return KindInt32, true
	case SQLBigInt:
		return KindInt64, true
	case SQLReal:
		return KindFloat32, true
	case SQLDouble:
		return KindFloat64, true
	case SQLChar:
		return KindChar, true
	case SQLVarchar:
		return KindString, true
	case SQLLongVarchar:
		return KindText, true
	case SQLWChar, SQLWVarchar:
		return KindWideString, true
	case SQLDate:
		return KindDate, true
	case SQLTime:
		return KindTime, true
	case SQLTimestamp:
		return KindDateTime, true
	case SQLNumeric:
		// Decodable only when the driver reports a scale; a raw
		// DECIMAL/NUMERIC with no metadata cannot be interpreted.
		if meta.Precision > 0 {
			return KindNumeric, true
		}
		return 0, false
	case SQLGUID:
		return KindGUID, true
	}
	return 0, false
}
