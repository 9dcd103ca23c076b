package bind

import (
	"github.com/google/uuid"

	"github.com/syssam/sqlkit/dialect"
)

// numericCodec handles KindNumeric. The wire form is decimal text; the
// declared precision and scale of the destination value drive parsing.
type numericCodec struct{}

func (numericCodec) Kind() Kind { return KindNumeric }

func (numericCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, _ Deferrer) error {
	p := Param{Type: SQLNumeric, Null: v.IsNull()}
	if !v.IsNull() {
		p.Value = v.Numeric().String()
	}
	return Error(h, h.BindParameter(index, p))
}

func (numericCodec) parseInto(v *Value, text []byte) error {
	n, err := ParseNumeric(string(text), v.num.Precision, v.num.Scale)
	if err != nil {
		return err
	}
	v.setNumeric(n)
	return nil
}

func (c numericCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindScalarOutput(h, col, v, d, SQLNumeric, func(text []byte) error {
		return c.parseInto(v, text)
	})
}

func (c numericCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchScalar(h, col, v, func(text []byte) error {
		return c.parseInto(v, text)
	})
}

func (numericCodec) Inspect(v *Value) string { return v.Inspect() }

// guidCodec handles KindGUID. The wire form is the canonical 36-byte
// text; raw 16-byte bodies are accepted on fetch.
type guidCodec struct{}

func (guidCodec) Kind() Kind { return KindGUID }

func (guidCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, _ Deferrer) error {
	p := Param{Type: SQLGUID, Null: v.IsNull()}
	if !v.IsNull() {
		p.Value = v.GUID().String()
	}
	return Error(h, h.BindParameter(index, p))
}

func parseGUID(text []byte) (uuid.UUID, error) {
	if len(text) == 16 {
		return uuid.FromBytes(text)
	}
	return uuid.ParseBytes(text)
}

func (guidCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindScalarOutput(h, col, v, d, SQLGUID, func(text []byte) error {
		g, err := parseGUID(text)
		if err != nil {
			return err
		}
		v.setGUID(g)
		return nil
	})
}

func (guidCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchScalar(h, col, v, func(text []byte) error {
		g, err := parseGUID(text)
		if err != nil {
			return err
		}
		v.setGUID(g)
		return nil
	})
}

func (guidCodec) Inspect(v *Value) string { return v.Inspect() }
