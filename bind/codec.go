package bind

import (
	"fmt"

	"github.com/syssam/sqlkit"
	"github.com/syssam/sqlkit/dialect"
)

// Codec converts one semantic kind between Values and the wire binding
// protocol. Codecs are stateless; one instance per kind is registered in
// the package-level registry and dispatch is by the Value variant tag.
type Codec interface {
	// Kind returns the variant this codec handles.
	Kind() Kind

	// BindInput binds v as an input parameter. For variable-length or
	// transcoded content the codec may allocate a wire buffer whose
	// lifetime is extended through d.Retain until after execute. The
	// server kind selects per-dialect encodings and is passed explicitly,
	// never inferred.
	BindInput(h Handle, index int, v *Value, server dialect.ServerKind, d Deferrer) error

	// BindOutput binds a pre-sized buffer for driver-driven column fetch
	// and registers a post-fetch fixup on d that resizes, truncates or
	// null-normalizes v from the length indicator after each row.
	BindOutput(h Handle, col int, v *Value, d Deferrer) error

	// Fetch pulls the column ad hoc, without a prior bind.
	Fetch(h Handle, col int, v *Value) error

	// Inspect renders v for logging and debugging.
	Inspect(v *Value) string
}

// codecs is the per-kind registry. Dispatch is exhaustive over the Kind
// constants; KindNull has no codec of its own.
var codecs = map[Kind]Codec{
	KindBool:       boolCodec{},
	KindInt16:      intCodec{kind: KindInt16},
	KindInt32:      intCodec{kind: KindInt32},
	KindInt64:      intCodec{kind: KindInt64},
	KindUint16:     uintCodec{kind: KindUint16},
	KindUint32:     uintCodec{kind: KindUint32},
	KindUint64:     uintCodec{kind: KindUint64},
	KindFloat32:    floatCodec{kind: KindFloat32},
	KindFloat64:    floatCodec{kind: KindFloat64},
	KindChar:       charCodec{},
	KindString:     stringCodec{},
	KindWideString: wideStringCodec{},
	KindText:       textCodec{},
	KindDate:       timeCodec{kind: KindDate},
	KindTime:       timeCodec{kind: KindTime},
	KindDateTime:   timeCodec{kind: KindDateTime},
	KindNumeric:    numericCodec{},
	KindGUID:       guidCodec{},
}

// CodecFor returns the codec registered for the given kind.
func CodecFor(k Kind) (Codec, bool) {
	c, ok := codecs[k]
	return c, ok
}

// BindInputValue dispatches BindInput on the codec for v's kind.
func BindInputValue(h Handle, index int, v *Value, server dialect.ServerKind, d Deferrer) error {
	c, ok := CodecFor(v.Kind())
	if !ok {
		return fmt.Errorf("sqlkit: no codec for kind %s", v.Kind())
	}
	return c.BindInput(h, index, v, server, d)
}

// BindOutputValue dispatches BindOutput on the codec for v's kind.
func BindOutputValue(h Handle, col int, v *Value, d Deferrer) error {
	c, ok := CodecFor(v.Kind())
	if !ok {
		return fmt.Errorf("sqlkit: no codec for kind %s", v.Kind())
	}
	return c.BindOutput(h, col, v, d)
}

// FetchValue dispatches Fetch on the codec for v's kind.
func FetchValue(h Handle, col int, v *Value) error {
	c, ok := CodecFor(v.Kind())
	if !ok {
		return fmt.Errorf("sqlkit: no codec for kind %s", v.Kind())
	}
	return c.Fetch(h, col, v)
}

// scalarBufSize fits every textual rendering of a fixed-width value:
// integers, floats, temporals, numerics and GUIDs.
const scalarBufSize = 64

// bindScalarOutput binds a textual output buffer for a fixed-width kind
// and registers a fixup that parses it after each fetch. parse receives
// the raw column text and must set the value content.
func bindScalarOutput(h Handle, col int, v *Value, d Deferrer, t SQLType, parse func(text []byte) error) error {
	b := &ColumnBinding{Type: t, Buf: make([]byte, scalarBufSize), ElemSize: 1}
	if st := h.BindColumn(col, b); !st.OK() {
		return Error(h, st)
	}
	d.AfterFetch(func() error {
		if b.Ind == NullData {
			v.setNull()
			return nil
		}
		n := int(b.Ind)
		if n < 0 || n > len(b.Buf) {
			return sqlkit.NewProtocolError("bound scalar fetch", int64(len(b.Buf)), int64(b.Ind))
		}
		return parse(b.Buf[:n])
	})
	return nil
}

// fetchScalar pulls a fixed-width column ad hoc and parses its text.
func fetchScalar(h Handle, col int, v *Value, parse func(text []byte) error) error {
	buf := make([]byte, scalarBufSize)
	n, ind, st := h.GetData(col, buf, 1)
	if err := Error(h, st); err != nil {
		return err
	}
	if ind == NullData {
		v.setNull()
		return nil
	}
	if int(ind) > len(buf) {
		return sqlkit.NewProtocolError("scalar fetch", int64(len(buf)), int64(ind))
	}
	if ind >= 0 && int(ind) < n {
		n = int(ind)
	}
	return parse(buf[:n])
}
