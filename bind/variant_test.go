package bind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlkit"
)

func TestFetchVariant(t *testing.T) {
	h := newFakeHandle()
	h.meta = map[int]ColumnMeta{
		1: {Name: "id", Type: SQLBigInt},
		2: {Name: "name", Type: SQLVarchar, Size: 64},
		3: {Name: "price", Type: SQLNumeric, Precision: 10, Scale: 2},
		4: {Name: "code", Type: SQLChar, Size: 4},
		5: {Name: "title", Type: SQLWVarchar},
		6: {Name: "flag", Type: SQLBit},
	}
	h.addRow(map[int]fakeCol{
		1: {data: []byte("9001")},
		2: {data: []byte("widget")},
		3: {data: []byte("19.99")},
		4: {data: []byte("AB  ")},
		5: {data: encodeUTF16LE(utf16Units("ünïcode"))},
		6: {data: []byte("t")},
	})
	require.Equal(t, StatusSuccess, h.Fetch())

	v, err := FetchVariant(h, 1)
	require.NoError(t, err)
	assert.Equal(t, KindInt64, v.Kind())
	assert.Equal(t, int64(9001), v.Int64())

	v, err = FetchVariant(h, 2)
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "widget", v.String())

	v, err = FetchVariant(h, 3)
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, v.Kind())
	assert.Equal(t, "19.99", v.Numeric().String())
	assert.Equal(t, uint8(2), v.Numeric().Scale)

	v, err = FetchVariant(h, 4)
	require.NoError(t, err)
	assert.Equal(t, KindChar, v.Kind())
	assert.Equal(t, "AB", v.String(), "fixed CHAR trims its padding")

	v, err = FetchVariant(h, 5)
	require.NoError(t, err)
	assert.Equal(t, KindWideString, v.Kind())
	assert.Equal(t, "ünïcode", v.String())

	v, err = FetchVariant(h, 6)
	require.NoError(t, err)
	assert.Equal(t, KindBool, v.Kind())
	assert.True(t, v.Bool())
}

func TestFetchVariantNull(t *testing.T) {
	h := newFakeHandle()
	h.meta = map[int]ColumnMeta{1: {Type: SQLInteger, Nullable: true}}
	h.addRow(map[int]fakeCol{1: {null: true}})
	require.Equal(t, StatusSuccess, h.Fetch())

	v, err := FetchVariant(h, 1)
	require.NoError(t, err)
	assert.Equal(t, KindInt32, v.Kind())
	assert.True(t, v.IsNull())
}

func TestFetchVariantUnsupported(t *testing.T) {
	h := newFakeHandle()
	h.meta = map[int]ColumnMeta{
		1: {Type: SQLBinary},
		2: {Type: SQLNull},
		3: {Type: SQLNumeric}, // no declared precision
	}
	h.addRow(map[int]fakeCol{1: {data: []byte{0xde, 0xad}}})
	require.Equal(t, StatusSuccess, h.Fetch())

	for col := 1; col <= 3; col++ {
		_, err := FetchVariant(h, col)
		require.Error(t, err, "column %d", col)
		assert.True(t, sqlkit.IsUnsupportedType(err))
	}

	// An unknown column index surfaces the driver failure, not a decode.
	h.diag = DiagRecord{Message: "invalid column", State: "07009"}
	_, err := FetchVariant(h, 9)
	require.Error(t, err)
}
