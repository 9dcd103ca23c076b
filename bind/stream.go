package bind

import (
	"github.com/syssam/sqlkit"
)

// initialFetchSize is the starting buffer size, in bytes, for a
// variable-length fetch with no pre-sized destination.
const initialFetchSize = 64

// Sink is the growable destination contract shared by the narrow, wide
// and fixed string codecs. All sizes are in bytes; implementations with
// ElemSize 2 only ever see even sizes.
type Sink interface {
	// Grow ensures at least n spare bytes beyond the current size.
	Grow(n int)
	// Resize sets the logical size. The capacity must already suffice.
	Resize(n int)
	// Tail returns the writable storage beyond the current size.
	Tail() []byte
	// Size returns the current logical size.
	Size() int
	// ElemSize returns the wire element width: 1 narrow, 2 wide.
	ElemSize() int
}

// byteSink is the Sink implementation used by every string codec.
type byteSink struct {
	data []byte
	elem int
}

func (s *byteSink) Grow(n int) {
	if n <= 0 {
		return
	}
	need := len(s.data) + n
	if cap(s.data) >= need {
		return
	}
	newCap := 2 * cap(s.data)
	if newCap < need {
		newCap = need
	}
	if newCap < initialFetchSize {
		newCap = initialFetchSize
	}
	if s.elem > 1 {
		newCap += newCap % s.elem
	}
	nd := make([]byte, len(s.data), newCap)
	copy(nd, s.data)
	s.data = nd
}

func (s *byteSink) Resize(n int)  { s.data = s.data[:n] }
func (s *byteSink) Tail() []byte  { return s.data[len(s.data):cap(s.data)] }
func (s *byteSink) Size() int     { return len(s.data) }
func (s *byteSink) ElemSize() int { return s.elem }

// FetchVariable drains a variable-length column of unknown total size
// into s by repeated GetData calls. Growth is geometric when the server
// cannot report the remaining length (NoTotal) and exact when it can.
// It returns true when the column is NULL.
func FetchVariable(h Handle, col int, s Sink) (bool, error) {
	if len(s.Tail()) == 0 {
		s.Grow(initialFetchSize)
	}
	for {
		buf := s.Tail()
		n, ind, st := h.GetData(col, buf, s.ElemSize())
		if st == StatusNoData {
			return false, nil
		}
		if !st.OK() {
			return false, Error(h, st)
		}
		switch {
		case ind == NullData:
			s.Resize(0)
			return true, nil
		case ind == NoTotal:
			// The driver filled the buffer but cannot say how much is
			// left: grow geometrically and keep fetching.
			s.Resize(s.Size() + n)
			s.Grow(2 * len(buf))
		case int(ind) >= len(buf):
			// Truncated with a known remainder: grow to exactly fit and
			// fetch once more. The follow-up indicator must agree with
			// the requested remainder.
			s.Resize(s.Size() + n)
			remainder := int(ind) - n
			if remainder == 0 {
				return false, nil
			}
			return false, fetchRemainder(h, col, s, remainder)
		default:
			// Everything fit; the indicator is the actual length.
			s.Resize(s.Size() + int(ind))
			return false, nil
		}
	}
}

// FinishBound completes a bound-column fetch after the driver wrote the
// first chunk into b.Buf and set b.Ind. The sink receives the full value,
// refetching any truncated remainder through GetData. It returns true
// when the column is NULL.
func FinishBound(h Handle, col int, b *ColumnBinding, s Sink) (bool, error) {
	switch {
	case b.Ind == NullData:
		s.Resize(0)
		return true, nil
	case b.Ind == NoTotal:
		// The driver filled the buffer with no length report; stream the
		// rest with geometric growth.
		s.Grow(len(b.Buf))
		copy(s.Tail(), b.Buf)
		s.Resize(s.Size() + len(b.Buf))
		return FetchVariable(h, col, s)
	}
	total := int(b.Ind)
	if total < len(b.Buf) {
		s.Grow(total)
		copy(s.Tail(), b.Buf[:total])
		s.Resize(s.Size() + total)
		return false, nil
	}
	written := len(b.Buf)
	s.Grow(total)
	copy(s.Tail(), b.Buf[:written])
	s.Resize(s.Size() + written)
	if remainder := total - written; remainder > 0 {
		return false, fetchRemainder(h, col, s, remainder)
	}
	return false, nil
}

// fetchRemainder issues the single follow-up fetch for a truncation with
// known remaining length and verifies the follow-up indicator.
func fetchRemainder(h Handle, col int, s Sink, remainder int) error {
	s.Grow(remainder)
	dst := s.Tail()[:remainder]
	n, ind, st := h.GetData(col, dst, s.ElemSize())
	if st == StatusNoData {
		return sqlkit.NewProtocolError("refetch", int64(remainder), 0)
	}
	if !st.OK() {
		return Error(h, st)
	}
	if int(ind) != remainder || n != remainder {
		return sqlkit.NewProtocolError("refetch", int64(remainder), int64(ind))
	}
	s.Resize(s.Size() + remainder)
	return nil
}
