package sql

import (
	stdsql "database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/syssam/sqlkit/bind"
	"github.com/syssam/sqlkit/dialect"
	"github.com/syssam/sqlkit/stmt"
)

// Conn wraps a database/sql connection pool together with its engine
// kind. It hands out statement handles speaking the wire binding
// protocol on top of database/sql.
type Conn struct {
	db   *stdsql.DB
	kind dialect.ServerKind
}

// Open opens a database/sql connection for the given engine.
func Open(kind dialect.ServerKind, driverName, dsn string) (*Conn, error) {
	db, err := stdsql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlkit: open %s: %w", kind, err)
	}
	return &Conn{db: db, kind: kind}, nil
}

// OpenDB wraps an existing database/sql pool.
func OpenDB(kind dialect.ServerKind, db *stdsql.DB) *Conn {
	return &Conn{db: db, kind: kind}
}

// DB returns the underlying pool.
func (c *Conn) DB() *stdsql.DB { return c.db }

// Kind returns the engine kind this connection targets.
func (c *Conn) Kind() dialect.ServerKind { return c.kind }

// Close closes the underlying pool.
func (c *Conn) Close() error { return c.db.Close() }

// Handle returns a fresh driver handle. Handles are not safe for
// concurrent use.
func (c *Conn) Handle() *Handle {
	return &Handle{db: c.db, kind: c.kind}
}

// Statement returns a statement shell bound to a fresh handle.
func (c *Conn) Statement(opts ...stmt.Option) *stmt.Statement {
	return stmt.New(c.Handle(), c.kind, opts...)
}

// Handle adapts database/sql to the bind.Handle wire protocol. Fetched
// column data is normalized to its textual wire form; GetData serves it
// in caller-sized chunks with the usual indicator semantics, including
// the UTF-16LE rendering for wide (element size 2) requests.
type Handle struct {
	db   *stdsql.DB
	kind dialect.ServerKind

	text    string
	stmt    *stdsql.Stmt
	nparams int
	params  map[int]bind.Param

	rows  *stdsql.Rows
	meta  []bind.ColumnMeta
	bound map[int]*bind.ColumnBinding

	// Current row state. data holds the normalized textual value per
	// column; wide caches the UTF-16LE rendering on first wide request.
	data   [][]byte
	nulls  []bool
	wide   [][]byte
	served []int

	affected  int64
	lastID    int64
	lastIDErr error

	diag bind.DiagRecord
}

var _ bind.Handle = (*Handle)(nil)

// fail records the error diagnostics and returns StatusError.
func (h *Handle) fail(err error) bind.Status {
	h.diag = bind.DiagRecord{Message: err.Error(), State: sqlState(err)}
	return bind.StatusError
}

// sqlState extracts the five-character SQLSTATE when the driver error
// carries one (lib/pq does).
func sqlState(err error) string {
	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		return coded.SQLState()
	}
	return ""
}

// Diag implements bind.Handle.
func (h *Handle) Diag() bind.DiagRecord { return h.diag }

// Prepare implements bind.Handle. Placeholders are rewritten to the
// engine's marker syntax before preparing.
func (h *Handle) Prepare(text string) bind.Status {
	h.reset()
	h.text = text
	h.nparams = bind.CountMarkers(text)
	prepared := text
	if h.kind == dialect.Postgres {
		prepared = rewriteMarkers(text)
	}
	st, err := h.db.Prepare(prepared)
	if err != nil {
		return h.fail(err)
	}
	h.stmt = st
	return bind.StatusSuccess
}

// ExecDirect implements bind.Handle.
func (h *Handle) ExecDirect(text string) bind.Status {
	if st := h.Prepare(text); !st.OK() {
		return st
	}
	return h.Execute()
}

// Execute implements bind.Handle. Statements whose leading keyword
// produces a result set run as queries; everything else runs as an
// exec, capturing the affected-row count and generated identity.
func (h *Handle) Execute() bind.Status {
	if h.stmt == nil {
		return bind.StatusInvalidHandle
	}
	h.closeRows()
	args := make([]any, h.nparams)
	for i := 1; i <= h.nparams; i++ {
		args[i-1] = paramArg(h.params[i])
	}
	if returnsRows(h.text) {
		rows, err := h.stmt.Query(args...)
		if err != nil {
			return h.fail(err)
		}
		h.rows = rows
		if st := h.loadMeta(); !st.OK() {
			return st
		}
		return bind.StatusSuccess
	}
	res, err := h.stmt.Exec(args...)
	if err != nil {
		return h.fail(err)
	}
	h.affected, _ = res.RowsAffected()
	h.lastID, h.lastIDErr = res.LastInsertId()
	return bind.StatusSuccess
}

// paramArg converts a wire parameter into a database/sql argument.
func paramArg(p bind.Param) any {
	if p.Null || p.Value == nil {
		return nil
	}
	if buf, ok := p.Value.([]byte); ok {
		if p.Type == bind.SQLWChar || p.Type == bind.SQLWVarchar {
			return utf16LEString(buf)
		}
		return string(buf)
	}
	return p.Value
}

// utf16LEString decodes a UTF-16LE byte stream into a Go string.
func utf16LEString(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return string(utf16.Decode(units))
}

// BindParameter implements bind.Handle.
func (h *Handle) BindParameter(index int, p bind.Param) bind.Status {
	if index < 1 || index > h.nparams {
		h.diag = bind.DiagRecord{
			Message: fmt.Sprintf("parameter index %d out of range", index),
			State:   bind.StateInvalidDescriptorIndex,
		}
		return bind.StatusError
	}
	if h.params == nil {
		h.params = map[int]bind.Param{}
	}
	h.params[index] = p
	return bind.StatusSuccess
}

// BindColumn implements bind.Handle.
func (h *Handle) BindColumn(col int, b *bind.ColumnBinding) bind.Status {
	if h.bound == nil {
		h.bound = map[int]*bind.ColumnBinding{}
	}
	h.bound[col] = b
	return bind.StatusSuccess
}

// Fetch implements bind.Handle. The row is scanned, normalized to
// textual wire form and the first chunk of each bound column is served.
func (h *Handle) Fetch() bind.Status {
	if h.rows == nil {
		return bind.StatusInvalidHandle
	}
	if !h.rows.Next() {
		if err := h.rows.Err(); err != nil {
			return h.fail(err)
		}
		return bind.StatusNoData
	}
	n := len(h.meta)
	dest := make([]any, n)
	raw := make([]any, n)
	for i := range dest {
		dest[i] = &raw[i]
	}
	if err := h.rows.Scan(dest...); err != nil {
		return h.fail(err)
	}
	h.data = make([][]byte, n)
	h.nulls = make([]bool, n)
	h.wide = make([][]byte, n)
	h.served = make([]int, n)
	for i, v := range raw {
		h.data[i], h.nulls[i] = normalize(v)
	}
	for col, b := range h.bound {
		h.serveBound(col, b)
	}
	return bind.StatusSuccess
}

// serveBound writes the first chunk of a bound column and sets its
// indicator: the total available length, or NullData.
func (h *Handle) serveBound(col int, b *bind.ColumnBinding) {
	if col < 1 || col > len(h.data) {
		b.Ind = bind.NullData
		return
	}
	if h.nulls[col-1] {
		b.Ind = bind.NullData
		return
	}
	data := h.columnData(col, b.ElemSize)
	n := copy(b.Buf, data)
	if b.ElemSize > 1 {
		n -= n % b.ElemSize
	}
	h.served[col-1] = n
	b.Ind = bind.Indicator(len(data))
}

// columnData returns the wire bytes of the column, transcoding to
// UTF-16LE once for wide requests.
func (h *Handle) columnData(col, elemSize int) []byte {
	if elemSize != 2 {
		return h.data[col-1]
	}
	if h.wide[col-1] == nil {
		units := utf16.Encode([]rune(string(h.data[col-1])))
		buf := make([]byte, 2*len(units))
		for i, u := range units {
			buf[2*i] = byte(u)
			buf[2*i+1] = byte(u >> 8)
		}
		h.wide[col-1] = buf
	}
	return h.wide[col-1]
}

// GetData implements bind.Handle. Repeated calls drain the column; the
// indicator reports the length available before each call.
func (h *Handle) GetData(col int, dst []byte, elemSize int) (int, bind.Indicator, bind.Status) {
	if h.data == nil || col < 1 || col > len(h.data) {
		h.diag = bind.DiagRecord{
			Message: fmt.Sprintf("column index %d out of range", col),
			State:   bind.StateInvalidDescriptorIndex,
		}
		return 0, 0, bind.StatusError
	}
	if h.nulls[col-1] {
		return 0, bind.NullData, bind.StatusSuccess
	}
	data := h.columnData(col, elemSize)
	off := h.served[col-1]
	remaining := data[off:]
	if len(remaining) == 0 && off > 0 {
		return 0, 0, bind.StatusNoData
	}
	n := len(remaining)
	if n > len(dst) {
		n = len(dst)
	}
	if elemSize > 1 {
		n -= n % elemSize
	}
	copy(dst, remaining[:n])
	h.served[col-1] = off + n
	st := bind.StatusSuccess
	if n < len(remaining) {
		st = bind.StatusSuccessWithInfo
	}
	return n, bind.Indicator(len(remaining)), st
}

// NumParams implements bind.Handle.
func (h *Handle) NumParams() (int, bind.Status) { return h.nparams, bind.StatusSuccess }

// NumColumns implements bind.Handle.
func (h *Handle) NumColumns() (int, bind.Status) { return len(h.meta), bind.StatusSuccess }

// ColumnMeta implements bind.Handle.
func (h *Handle) ColumnMeta(col int) (bind.ColumnMeta, bind.Status) {
	if col < 1 || col > len(h.meta) {
		return bind.ColumnMeta{}, bind.StatusError
	}
	return h.meta[col-1], bind.StatusSuccess
}

// RowsAffected implements bind.Handle.
func (h *Handle) RowsAffected() (int64, bind.Status) { return h.affected, bind.StatusSuccess }

// LastInsertID implements bind.Handle.
func (h *Handle) LastInsertID() (int64, bind.Status) {
	if h.lastIDErr != nil {
		return 0, h.fail(h.lastIDErr)
	}
	return h.lastID, bind.StatusSuccess
}

// CloseCursor implements bind.Handle.
func (h *Handle) CloseCursor() bind.Status {
	h.closeRows()
	return bind.StatusSuccess
}

// Close releases the prepared statement and any open cursor.
func (h *Handle) Close() error {
	h.closeRows()
	if h.stmt != nil {
		err := h.stmt.Close()
		h.stmt = nil
		return err
	}
	return nil
}

func (h *Handle) reset() {
	h.closeRows()
	if h.stmt != nil {
		h.stmt.Close()
		h.stmt = nil
	}
	h.params = nil
	h.bound = nil
	h.affected, h.lastID, h.lastIDErr = 0, 0, nil
}

// closeRows discards the open cursor. Column bindings survive until the
// next Prepare.
func (h *Handle) closeRows() {
	if h.rows != nil {
		h.rows.Close()
		h.rows = nil
	}
	h.meta = nil
	h.data, h.nulls, h.wide, h.served = nil, nil, nil, nil
}

// loadMeta captures the result set's column metadata.
func (h *Handle) loadMeta() bind.Status {
	types, err := h.rows.ColumnTypes()
	if err != nil {
		return h.fail(err)
	}
	h.meta = make([]bind.ColumnMeta, len(types))
	for i, ct := range types {
		m := bind.ColumnMeta{Name: ct.Name(), Type: sqlTypeOf(ct.DatabaseTypeName())}
		if size, ok := ct.Length(); ok {
			m.Size = int(size)
		}
		if p, s, ok := ct.DecimalSize(); ok {
			m.Precision, m.Scale = int(p), int(s)
		}
		if nullable, ok := ct.Nullable(); ok {
			m.Nullable = nullable
		}
		h.meta[i] = m
	}
	return bind.StatusSuccess
}

// sqlTypeOf maps a driver-reported type name to a wire SQL type.
func sqlTypeOf(name string) bind.SQLType {
	base := strings.ToUpper(name)
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	switch base {
	case "BIT", "BOOL", "BOOLEAN":
		return bind.SQLBit
	case "SMALLINT", "INT2":
		return bind.SQLSmallInt
	case "INT", "INTEGER", "INT4", "MEDIUMINT":
		return bind.SQLInteger
	case "BIGINT", "INT8":
		return bind.SQLBigInt
	case "REAL", "FLOAT4":
		return bind.SQLReal
	case "FLOAT", "DOUBLE", "DOUBLE PRECISION", "FLOAT8", "BINARY_DOUBLE":
		return bind.SQLDouble
	case "CHAR", "NCHAR", "BPCHAR", "CHARACTER":
		return bind.SQLChar
	case "VARCHAR", "NVARCHAR", "VARCHAR2", "NVARCHAR2", "CHARACTER VARYING":
		return bind.SQLVarchar
	case "TEXT", "CLOB", "LONGTEXT":
		return bind.SQLLongVarchar
	case "DATE":
		return bind.SQLDate
	case "TIME":
		return bind.SQLTime
	case "DATETIME", "DATETIME2", "TIMESTAMP", "TIMESTAMPTZ":
		return bind.SQLTimestamp
	case "DECIMAL", "NUMERIC", "NUMBER":
		return bind.SQLNumeric
	case "UUID", "GUID", "UNIQUEIDENTIFIER":
		return bind.SQLGUID
	case "BLOB", "BYTEA", "BINARY", "VARBINARY", "RAW":
		return bind.SQLBinary
	}
	return bind.SQLVarchar
}

// normalize renders a scanned database/sql value in its textual wire
// form.
func normalize(v any) (data []byte, null bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case []byte:
		return append([]byte(nil), x...), false
	case string:
		return []byte(x), false
	case int64:
		return strconv.AppendInt(nil, x, 10), false
	case float64:
		return strconv.AppendFloat(nil, x, 'g', -1, 64), false
	case bool:
		if x {
			return []byte("1"), false
		}
		return []byte("0"), false
	case time.Time:
		return []byte(x.Format("2006-01-02 15:04:05.999999999")), false
	}
	return []byte(fmt.Sprint(v)), false
}

// rewriteMarkers converts '?' placeholders to the $1..$N form.
func rewriteMarkers(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) + 8)
	n := 0
	inStr := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch ch {
		case '\'':
			if inStr && i+1 < len(text) && text[i+1] == '\'' {
				sb.WriteString("''")
				i++
				continue
			}
			inStr = !inStr
		case '?':
			if !inStr {
				n++
				sb.WriteString("$" + strconv.Itoa(n))
				continue
			}
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// returnsRows classifies SQL text by its leading keyword.
func returnsRows(text string) bool {
	trimmed := strings.TrimSpace(text)
	if i := strings.IndexAny(trimmed, " \t\r\n("); i > 0 {
		trimmed = trimmed[:i]
	}
	switch strings.ToUpper(trimmed) {
	case "SELECT", "WITH", "VALUES", "SHOW", "PRAGMA", "EXPLAIN":
		return true
	}
	return false
}
