package bind

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlkit"
)

func TestByteSinkGrow(t *testing.T) {
	s := &byteSink{elem: 1}
	s.Grow(1)
	assert.GreaterOrEqual(t, cap(s.data), initialFetchSize)
	assert.Zero(t, s.Size())

	// Growth is geometric: doubling at least, exact when doubling is short.
	s.Resize(cap(s.data))
	before := cap(s.data)
	s.Grow(1)
	assert.GreaterOrEqual(t, cap(s.data), 2*before)

	s.Grow(10 * cap(s.data))
	assert.GreaterOrEqual(t, cap(s.data)-s.Size(), 10*s.Size())
}

func TestByteSinkWideAlignment(t *testing.T) {
	s := &byteSink{elem: 2}
	s.Grow(65)
	assert.Zero(t, cap(s.data)%2, "wide sink capacity must hold whole code units")
	assert.Equal(t, 2, s.ElemSize())
}

func TestFetchVariableFitsFirstCall(t *testing.T) {
	h := newFakeHandle()
	h.addRow(map[int]fakeCol{1: {data: []byte("short")}})
	require.Equal(t, StatusSuccess, h.Fetch())

	s := &byteSink{elem: 1}
	null, err := FetchVariable(h, 1, s)
	require.NoError(t, err)
	assert.False(t, null)
	assert.Equal(t, "short", string(s.data))
}

func TestFetchVariableNull(t *testing.T) {
	h := newFakeHandle()
	h.addRow(map[int]fakeCol{1: {null: true}})
	require.Equal(t, StatusSuccess, h.Fetch())

	s := &byteSink{elem: 1}
	null, err := FetchVariable(h, 1, s)
	require.NoError(t, err)
	assert.True(t, null)
	assert.Zero(t, s.Size())
}

func TestFetchVariableKnownTotal(t *testing.T) {
	// The payload exceeds the initial buffer; the server reports the full
	// remaining length, so exactly one follow-up fetch completes the value.
	payload := strings.Repeat("abcdefgh", 40) // 320 bytes > initialFetchSize
	h := newFakeHandle()
	h.addRow(map[int]fakeCol{1: {data: []byte(payload)}})
	require.Equal(t, StatusSuccess, h.Fetch())

	s := &byteSink{elem: 1}
	null, err := FetchVariable(h, 1, s)
	require.NoError(t, err)
	assert.False(t, null)
	assert.Equal(t, payload, string(s.data))
}

func TestFetchVariableNoTotal(t *testing.T) {
	// With no length report the engine grows geometrically until a call
	// leaves spare room.
	payload := strings.Repeat("x", 1000)
	h := newFakeHandle()
	h.noTotal = true
	h.chunk = 100
	h.addRow(map[int]fakeCol{1: {data: []byte(payload)}})
	require.Equal(t, StatusSuccess, h.Fetch())

	s := &byteSink{elem: 1}
	null, err := FetchVariable(h, 1, s)
	require.NoError(t, err)
	assert.False(t, null)
	assert.Equal(t, payload, string(s.data))
}

func TestFetchVariableRefetchMismatch(t *testing.T) {
	// A follow-up fetch whose indicator disagrees with the requested
	// remainder is a protocol violation, not silently accepted data.
	payload := strings.Repeat("y", 200)
	h := newFakeHandle()
	h.lieRemainder = true
	h.addRow(map[int]fakeCol{1: {data: []byte(payload)}})
	require.Equal(t, StatusSuccess, h.Fetch())

	s := &byteSink{elem: 1}
	_, err := FetchVariable(h, 1, s)
	require.Error(t, err)
	assert.True(t, sqlkit.IsProtocolError(err))
}

func TestFinishBound(t *testing.T) {
	t.Run("value fits the bound buffer", func(t *testing.T) {
		h := newFakeHandle()
		b := &ColumnBinding{Type: SQLVarchar, Buf: make([]byte, 16), ElemSize: 1}
		require.True(t, h.BindColumn(1, b).OK())
		h.addRow(map[int]fakeCol{1: {data: []byte("bound")}})
		require.Equal(t, StatusSuccess, h.Fetch())

		s := &byteSink{elem: 1}
		null, err := FinishBound(h, 1, b, s)
		require.NoError(t, err)
		assert.False(t, null)
		assert.Equal(t, "bound", string(s.data))
	})

	t.Run("truncated with known total", func(t *testing.T) {
		payload := strings.Repeat("z", 100)
		h := newFakeHandle()
		b := &ColumnBinding{Type: SQLVarchar, Buf: make([]byte, 16), ElemSize: 1}
		require.True(t, h.BindColumn(1, b).OK())
		h.addRow(map[int]fakeCol{1: {data: []byte(payload)}})
		require.Equal(t, StatusSuccess, h.Fetch())

		s := &byteSink{elem: 1}
		null, err := FinishBound(h, 1, b, s)
		require.NoError(t, err)
		assert.False(t, null)
		assert.Equal(t, payload, string(s.data))
	})

	t.Run("truncated with no total", func(t *testing.T) {
		payload := strings.Repeat("w", 500)
		h := newFakeHandle()
		h.noTotal = true
		b := &ColumnBinding{Type: SQLVarchar, Buf: make([]byte, 16), ElemSize: 1}
		require.True(t, h.BindColumn(1, b).OK())
		h.addRow(map[int]fakeCol{1: {data: []byte(payload)}})
		require.Equal(t, StatusSuccess, h.Fetch())

		s := &byteSink{elem: 1}
		null, err := FinishBound(h, 1, b, s)
		require.NoError(t, err)
		assert.False(t, null)
		assert.Equal(t, payload, string(s.data))
	})

	t.Run("null column", func(t *testing.T) {
		h := newFakeHandle()
		b := &ColumnBinding{Type: SQLVarchar, Buf: make([]byte, 16), ElemSize: 1}
		require.True(t, h.BindColumn(1, b).OK())
		h.addRow(map[int]fakeCol{1: {null: true}})
		require.Equal(t, StatusSuccess, h.Fetch())

		s := &byteSink{elem: 1}
		null, err := FinishBound(h, 1, b, s)
		require.NoError(t, err)
		assert.True(t, null)
	})
}
