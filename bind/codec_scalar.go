package bind

import (
	"strconv"

	"github.com/syssam/sqlkit/dialect"
)

// boolCodec handles KindBool.
type boolCodec struct{}

func (boolCodec) Kind() Kind { return KindBool }

func (boolCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, _ Deferrer) error {
	p := Param{Type: SQLBit, Null: v.IsNull()}
	if !v.IsNull() {
		p.Value = v.Bool()
	}
	return Error(h, h.BindParameter(index, p))
}

func (boolCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindScalarOutput(h, col, v, d, SQLBit, func(text []byte) error {
		b, err := parseBool(text)
		if err != nil {
			return err
		}
		v.setBool(b)
		return nil
	})
}

func (boolCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchScalar(h, col, v, func(text []byte) error {
		b, err := parseBool(text)
		if err != nil {
			return err
		}
		v.setBool(b)
		return nil
	})
}

func (boolCodec) Inspect(v *Value) string { return v.Inspect() }

func parseBool(text []byte) (bool, error) {
	switch string(text) {
	case "1", "t", "true", "TRUE":
		return true, nil
	case "0", "f", "false", "FALSE":
		return false, nil
	}
	return strconv.ParseBool(string(text))
}

// intCodec handles the signed integer widths.
type intCodec struct {
	kind Kind
}

func (c intCodec) Kind() Kind { return c.kind }

func (c intCodec) sqlType() SQLType {
	switch c.kind {
	case KindInt16:
		return SQLSmallInt
	case KindInt32:
		return SQLInteger
	}
	return SQLBigInt
}

func (c intCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, _ Deferrer) error {
	p := Param{Type: c.sqlType(), Null: v.IsNull()}
	if !v.IsNull() {
		p.Value = v.Int64()
	}
	return Error(h, h.BindParameter(index, p))
}

func (c intCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindScalarOutput(h, col, v, d, c.sqlType(), func(text []byte) error {
		i, err := strconv.ParseInt(string(text), 10, 64)
		if err != nil {
			return err
		}
		v.setInt(i)
		return nil
	})
}

func (c intCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchScalar(h, col, v, func(text []byte) error {
		i, err := strconv.ParseInt(string(text), 10, 64)
		if err != nil {
			return err
		}
		v.setInt(i)
		return nil
	})
}

func (c intCodec) Inspect(v *Value) string { return v.Inspect() }

// uintCodec handles the unsigned integer widths.
type uintCodec struct {
	kind Kind
}

func (c uintCodec) Kind() Kind { return c.kind }

func (c uintCodec) sqlType() SQLType {
	switch c.kind {
	case KindUint16:
		return SQLSmallInt
	case KindUint32:
		return SQLInteger
	}
	return SQLBigInt
}

func (c uintCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, _ Deferrer) error {
	p := Param{Type: c.sqlType(), Null: v.IsNull()}
	if !v.IsNull() {
		p.Value = v.Uint64()
	}
	return Error(h, h.BindParameter(index, p))
}

func (c uintCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindScalarOutput(h, col, v, d, c.sqlType(), func(text []byte) error {
		u, err := strconv.ParseUint(string(text), 10, 64)
		if err != nil {
			return err
		}
		v.setUint(u)
		return nil
	})
}

func (c uintCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchScalar(h, col, v, func(text []byte) error {
		u, err := strconv.ParseUint(string(text), 10, 64)
		if err != nil {
			return err
		}
		v.setUint(u)
		return nil
	})
}

func (c uintCodec) Inspect(v *Value) string { return v.Inspect() }

// floatCodec handles the floating point widths.
type floatCodec struct {
	kind Kind
}

func (c floatCodec) Kind() Kind { return c.kind }

func (c floatCodec) sqlType() SQLType {
	if c.kind == KindFloat32 {
		return SQLReal
	}
	return SQLDouble
}

func (c floatCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, _ Deferrer) error {
	p := Param{Type: c.sqlType(), Null: v.IsNull()}
	if !v.IsNull() {
		p.Value = v.Float64()
	}
	return Error(h, h.BindParameter(index, p))
}

func (c floatCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindScalarOutput(h, col, v, d, c.sqlType(), func(text []byte) error {
		f, err := strconv.ParseFloat(string(text), 64)
		if err != nil {
			return err
		}
		if c.kind == KindFloat32 {
			f = float64(float32(f))
		}
		v.setFloat(f)
		return nil
	})
}

func (c floatCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchScalar(h, col, v, func(text []byte) error {
		f, err := strconv.ParseFloat(string(text), 64)
		if err != nil {
			return err
		}
		if c.kind == KindFloat32 {
			f = float64(float32(f))
		}
		v.setFloat(f)
		return nil
	})
}

func (c floatCodec) Inspect(v *Value) string { return v.Inspect() }
