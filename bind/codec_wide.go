package bind

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"

	"github.com/syssam/sqlkit/dialect"
)

// utf16LE transforms between UTF-8 and UTF-16LE byte streams.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeUTF16LE renders UTF-16 code units as a little-endian byte stream.
func encodeUTF16LE(units []uint16) []byte {
	b := make([]byte, 2*len(units))
	for i, u := range units {
		b[2*i] = byte(u)
		b[2*i+1] = byte(u >> 8)
	}
	return b
}

// decodeUTF16LE parses a little-endian byte stream into UTF-16 code
// units. A trailing odd byte is dropped.
func decodeUTF16LE(b []byte) []uint16 {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return units
}

// wideToUTF8 transcodes UTF-16 code units to UTF-8 bytes.
func wideToUTF8(units []uint16) ([]byte, error) {
	return utf16LE.NewDecoder().Bytes(encodeUTF16LE(units))
}

// wideStringCodec handles KindWideString.
//
// For Postgres the "unicode" wire type is UTF-8, not UTF-16, so input
// binding transcodes to UTF-8 before the bind call; every other dialect
// receives native wide characters. The branch is driven by the server
// kind passed into BindInput, never inferred.
type wideStringCodec struct{}

func (wideStringCodec) Kind() Kind { return KindWideString }

func (wideStringCodec) BindInput(h Handle, index int, v *Value, server dialect.ServerKind, d Deferrer) error {
	p := Param{Type: SQLWVarchar, Null: v.IsNull()}
	if !v.IsNull() {
		if server == dialect.Postgres {
			buf, err := wideToUTF8(v.wbuf)
			if err != nil {
				return err
			}
			d.Retain(buf)
			p.Type = SQLVarchar
			p.Value = buf
		} else {
			buf := encodeUTF16LE(v.wbuf)
			d.Retain(buf)
			p.Value = buf
		}
	}
	return Error(h, h.BindParameter(index, p))
}

func (wideStringCodec) BindOutput(h Handle, col int, v *Value, d Deferrer) error {
	b := &ColumnBinding{Type: SQLWVarchar, Buf: make([]byte, 2*initialFetchSize), ElemSize: 2}
	if st := h.BindColumn(col, b); !st.OK() {
		return Error(h, st)
	}
	d.AfterFetch(func() error {
		s := &byteSink{elem: 2}
		null, err := FinishBound(h, col, b, s)
		if err != nil {
			return err
		}
		if null {
			v.setNull()
			return nil
		}
		v.setWide(decodeUTF16LE(s.data))
		return nil
	})
	return nil
}

func (wideStringCodec) Fetch(h Handle, col int, v *Value) error {
	s := &byteSink{elem: 2}
	null, err := FetchVariable(h, col, s)
	if err != nil {
		return err
	}
	if null {
		v.setNull()
		return nil
	}
	v.setWide(decodeUTF16LE(s.data))
	return nil
}

func (wideStringCodec) Inspect(v *Value) string { return v.Inspect() }

// WideString decodes UTF-16 code units into a Go string. Exposed for the
// driver adapters that emulate wide columns.
func WideString(units []uint16) string {
	return string(utf16.Decode(units))
}
