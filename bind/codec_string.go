package bind

import (
	"bytes"

	"github.com/syssam/sqlkit/dialect"
)

// bindStringInput binds narrow string content as an input parameter. The
// wire buffer is a stable copy retained on the statement until after
// execute.
func bindStringInput(h Handle, index int, v *Value, t SQLType, d Deferrer) error {
	p := Param{Type: t, Null: v.IsNull()}
	if !v.IsNull() {
		buf := bytes.Clone(v.buf)
		d.Retain(buf)
		p.Value = buf
	}
	return Error(h, h.BindParameter(index, p))
}

// charCodec handles KindChar: fixed capacity, trailing spaces trimmed.
type charCodec struct{}

func (charCodec) Kind() Kind { return KindChar }

func (charCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, d Deferrer) error {
	return bindStringInput(h, index, v, SQLChar, d)
}

func (charCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	initial := v.fixed
	if initial <= 0 {
		initial = initialFetchSize
	}
	b := &ColumnBinding{Type: SQLChar, Buf: make([]byte, initial), ElemSize: 1}
	if st := h.BindColumn(col, b); !st.OK() {
		return Error(h, st)
	}
	d.AfterFetch(func() error {
		s := &byteSink{elem: 1}
		null, err := FinishBound(h, col, b, s)
		if err != nil {
			return err
		}
		if null {
			v.setNull()
			return nil
		}
		v.setBytes(trimPadding(s.data))
		return nil
	})
	return nil
}

func (charCodec) Fetch(h Handle, col int, v *Value) error {
	s := &byteSink{elem: 1}
	null, err := FetchVariable(h, col, s)
	if err != nil {
		return err
	}
	if null {
		v.setNull()
		return nil
	}
	v.setBytes(trimPadding(s.data))
	return nil
}

func (charCodec) Inspect(v *Value) string { return v.Inspect() }

// trimPadding removes the trailing space padding of a fixed CHAR column.
func trimPadding(b []byte) []byte {
	return bytes.TrimRight(b, " ")
}

// stringCodec handles KindString.
type stringCodec struct{}

func (stringCodec) Kind() Kind { return KindString }

func (stringCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, d Deferrer) error {
	return bindStringInput(h, index, v, SQLVarchar, d)
}

func (stringCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindVariableOutput(h, col, v, d, SQLVarchar, initialFetchSize)
}

func (stringCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchVariableInto(h, col, v)
}

func (stringCodec) Inspect(v *Value) string { return v.Inspect() }

// textCodec handles KindText. Identical protocol to KindString with a
// larger initial chunk.
type textCodec struct{}

func (textCodec) Kind() Kind { return KindText }

func (textCodec) BindInput(h Handle, index int, v *Value, _ dialect.ServerKind, d Deferrer) error {
	return bindStringInput(h, index, v, SQLLongVarchar, d)
}

func (textCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	return bindVariableOutput(h, col, v, d, SQLLongVarchar, 4*initialFetchSize)
}

func (textCodec) Fetch(h Handle, col int, v *Value) error {
	return fetchVariableInto(h, col, v)
}

func (textCodec) Inspect(v *Value) string { return v.Inspect() }

// bindVariableOutput is the shared bound-output path for growable narrow
// strings.
func bindVariableOutput(h Handle, col int, v *Value, d Deferrer, t SQLType, initial int) error {
	b := &ColumnBinding{Type: t, Buf: make([]byte, initial), ElemSize: 1}
	if st := h.BindColumn(col, b); !st.OK() {
		return Error(h, st)
	}
	d.AfterFetch(func() error {
		s := &byteSink{elem: 1}
		null, err := FinishBound(h, col, b, s)
		if err != nil {
			return err
		}
		if null {
			v.setNull()
			return nil
		}
		v.setBytes(s.data)
		return nil
	})
	return nil
}

// fetchVariableInto is the shared pull-mode path for growable narrow
// strings.
func fetchVariableInto(h Handle, col int, v *Value) error {
	s := &byteSink{elem: 1}
	null, err := FetchVariable(h, col, s)
	if err != nil {
		return err
	}
	if null {
		v.setNull()
		return nil
	}
	v.setBytes(s.data)
	return nil
}
