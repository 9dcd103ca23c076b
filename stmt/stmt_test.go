package stmt

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlkit"
	"github.com/syssam/sqlkit/bind"
	"github.com/syssam/sqlkit/dialect"
)

// scriptHandle is a minimal in-memory handle for exercising the
// statement shell. Scalar columns are served whole from row data.
type scriptHandle struct {
	prepared  string
	executes  int
	params    map[int]bind.Param
	nparams   int
	rows      [][]string
	rowIdx    int
	failExec  bool
	diag      bind.DiagRecord
	affected  int64
	lastID    int64
	closed    int
}

func newScriptHandle() *scriptHandle {
	return &scriptHandle{params: map[int]bind.Param{}, rowIdx: -1}
}

func (s *scriptHandle) Prepare(text string) bind.Status {
	s.prepared = text
	return bind.StatusSuccess
}

func (s *scriptHandle) ExecDirect(text string) bind.Status {
	s.prepared = text
	return s.Execute()
}

func (s *scriptHandle) Execute() bind.Status {
	if s.failExec {
		return bind.StatusError
	}
	s.executes++
	return bind.StatusSuccess
}

func (s *scriptHandle) Fetch() bind.Status {
	s.rowIdx++
	if s.rowIdx >= len(s.rows) {
		return bind.StatusNoData
	}
	return bind.StatusSuccess
}

func (s *scriptHandle) CloseCursor() bind.Status {
	s.closed++
	s.rowIdx = -1
	return bind.StatusSuccess
}

func (s *scriptHandle) BindParameter(index int, p bind.Param) bind.Status {
	s.params[index] = p
	return bind.StatusSuccess
}

func (s *scriptHandle) BindColumn(col int, b *bind.ColumnBinding) bind.Status {
	return bind.StatusSuccess
}

func (s *scriptHandle) GetData(col int, dst []byte, elemSize int) (int, bind.Indicator, bind.Status) {
	if s.rowIdx < 0 || s.rowIdx >= len(s.rows) || col > len(s.rows[s.rowIdx]) {
		return 0, 0, bind.StatusError
	}
	data := s.rows[s.rowIdx][col-1]
	n := copy(dst, data)
	return n, bind.Indicator(len(data)), bind.StatusSuccess
}

func (s *scriptHandle) NumParams() (int, bind.Status)      { return s.nparams, bind.StatusSuccess }
func (s *scriptHandle) NumColumns() (int, bind.Status)     { return 0, bind.StatusSuccess }
func (s *scriptHandle) RowsAffected() (int64, bind.Status) { return s.affected, bind.StatusSuccess }
func (s *scriptHandle) LastInsertID() (int64, bind.Status) { return s.lastID, bind.StatusSuccess }
func (s *scriptHandle) Diag() bind.DiagRecord              { return s.diag }

func (s *scriptHandle) ColumnMeta(col int) (bind.ColumnMeta, bind.Status) {
	return bind.ColumnMeta{}, bind.StatusError
}

var _ bind.Handle = (*scriptHandle)(nil)

func TestPrepareExecute(t *testing.T) {
	h := newScriptHandle()
	st := New(h, dialect.SQLite)

	require.NoError(t, st.Prepare("SELECT 1"))
	assert.Equal(t, "SELECT 1", h.prepared)
	require.NoError(t, st.Execute())
	assert.Equal(t, 1, h.executes)
}

func TestPrepareClearsDeferredWork(t *testing.T) {
	h := newScriptHandle()
	st := New(h, dialect.SQLite)

	stale := 0
	require.NoError(t, st.Prepare("SELECT 1"))
	st.AfterExecute(func() { stale++ })
	st.AfterFetch(func() error { stale++; return nil })
	st.Retain(make([]byte, 8))

	// A new prepare discards everything queued for the old statement.
	require.NoError(t, st.Prepare("SELECT 2"))
	require.NoError(t, st.Execute())
	h.rows = [][]string{{"x"}}
	ok, err := st.FetchRow()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, stale)
}

func TestExecuteDrainsQueue(t *testing.T) {
	h := newScriptHandle()
	st := New(h, dialect.SQLite)

	ran := 0
	require.NoError(t, st.Prepare("INSERT INTO t VALUES (1)"))
	st.AfterExecute(func() { ran++ })
	st.Retain(make([]byte, 8))

	require.NoError(t, st.Execute())
	assert.Equal(t, 1, ran)

	// The queue runs once; a re-execute must not replay it.
	require.NoError(t, st.Execute())
	assert.Equal(t, 1, ran)
}

func TestExecuteWithValues(t *testing.T) {
	h := newScriptHandle()
	h.nparams = 2
	st := New(h, dialect.MSSQL)
	require.NoError(t, st.Prepare("INSERT INTO t VALUES (?, ?)"))

	require.NoError(t, st.ExecuteWithValues(bind.NewInt32(1), bind.NewString("a")))
	assert.Equal(t, 1, h.executes)
	assert.Equal(t, bind.SQLInteger, h.params[1].Type)
	assert.Equal(t, bind.SQLVarchar, h.params[2].Type)
}

func TestExecuteWithValuesCountMismatch(t *testing.T) {
	h := newScriptHandle()
	h.nparams = 2
	st := New(h, dialect.MSSQL)
	require.NoError(t, st.Prepare("INSERT INTO t VALUES (?, ?)"))

	err := st.ExecuteWithValues(bind.NewInt32(1))
	require.Error(t, err)
	assert.True(t, sqlkit.IsArgumentCount(err))
	assert.Zero(t, h.executes, "a count mismatch is detected before execution")

	var ace *sqlkit.ArgumentCountError
	require.ErrorAs(t, err, &ace)
	assert.Equal(t, 2, ace.Want)
	assert.Equal(t, 1, ace.Got)
}

func TestFetchRow(t *testing.T) {
	h := newScriptHandle()
	h.rows = [][]string{{"1"}, {"2"}}
	st := New(h, dialect.Postgres)
	require.NoError(t, st.ExecuteDirect("SELECT n FROM t"))

	fetched := 0
	st.AfterFetch(func() error { fetched++; return nil })

	for {
		ok, err := st.FetchRow()
		require.NoError(t, err)
		if !ok {
			break
		}
	}
	assert.Equal(t, 2, fetched)
	require.NoError(t, st.CloseCursor())
	assert.Equal(t, 1, h.closed)
}

func TestFetchColumn(t *testing.T) {
	h := newScriptHandle()
	h.rows = [][]string{{"77", "hello"}}
	st := New(h, dialect.SQLite)
	require.NoError(t, st.ExecuteDirect("SELECT a, b FROM t"))

	ok, err := st.FetchRow()
	require.NoError(t, err)
	require.True(t, ok)

	v := bind.NewNull(bind.KindInt64)
	require.NoError(t, st.FetchColumn(1, v))
	assert.Equal(t, int64(77), v.Int64())

	s := bind.NewNull(bind.KindString)
	require.NoError(t, st.FetchColumn(2, s))
	assert.Equal(t, "hello", s.String())
}

func TestRowCounts(t *testing.T) {
	h := newScriptHandle()
	h.affected = 3
	h.lastID = 42
	st := New(h, dialect.SQLite)
	require.NoError(t, st.ExecuteDirect("UPDATE t SET a = 1"))

	n, err := st.NumRowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	id, err := st.LastInsertID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestExecuteFailureSurfacesDiag(t *testing.T) {
	h := newScriptHandle()
	h.failExec = true
	h.diag = bind.DiagRecord{Message: "deadlock victim", State: "40001"}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	st := New(h, dialect.MSSQL, WithLogger(dialect.NewSlogLogger(logger)))

	require.NoError(t, st.Prepare("DELETE FROM t"))
	err := st.Execute()
	require.Error(t, err)
	assert.True(t, sqlkit.IsDriverError(err))
	assert.Contains(t, buf.String(), "deadlock victim")
}

