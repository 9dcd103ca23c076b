// Package stmt is the statement execution shell: it glues the value
// codec and the query builder to a prepared-statement handle, schedules
// post-execute and post-fetch callbacks, and maps driver statuses to
// errors.
package stmt

import (
	"github.com/syssam/sqlkit"
	"github.com/syssam/sqlkit/bind"
	"github.com/syssam/sqlkit/dialect"
)

// Statement owns exactly one underlying driver handle with 1:1 lifetime.
// It is synchronous and not safe for concurrent use; callers must
// serialize access.
type Statement struct {
	h    bind.Handle
	kind dialect.ServerKind
	log  dialect.Logger

	// Deferred work scoped to a single prepare/execute cycle. Both queues
	// and the retained-buffer arena are cleared on every Prepare.
	postExec  []func()
	postFetch []func() error
	arena     []any

	text string
}

// Option configures a Statement.
type Option func(*Statement)

// WithLogger sets the diagnostics sink. The default discards everything.
func WithLogger(l dialect.Logger) Option {
	return func(s *Statement) { s.log = l }
}

// New returns a Statement over the given handle and server kind.
func New(h bind.Handle, kind dialect.ServerKind, opts ...Option) *Statement {
	s := &Statement{h: h, kind: kind, log: dialect.NopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServerKind returns the engine this statement talks to.
func (s *Statement) ServerKind() dialect.ServerKind { return s.kind }

// Raw returns the underlying driver handle for codec-level access.
func (s *Statement) Raw() bind.Handle { return s.h }

// AfterExecute implements bind.Deferrer.
func (s *Statement) AfterExecute(fn func()) { s.postExec = append(s.postExec, fn) }

// AfterFetch implements bind.Deferrer.
func (s *Statement) AfterFetch(fn func() error) { s.postFetch = append(s.postFetch, fn) }

// Retain implements bind.Deferrer, keeping buf reachable until the
// post-execute queue is drained.
func (s *Statement) Retain(buf any) { s.arena = append(s.arena, buf) }

// reset clears the deferred queues and the buffer arena so no stale
// closures leak across statement reuse.
func (s *Statement) reset() {
	s.postExec = nil
	s.postFetch = nil
	s.arena = nil
}

func (s *Statement) fail(err error, op string) error {
	if err != nil {
		s.log.OnError(err, op)
	}
	return err
}

// Prepare prepares sqlText on the handle. Any deferred callbacks from a
// previous cycle are discarded first.
func (s *Statement) Prepare(sqlText string) error {
	s.reset()
	s.text = sqlText
	s.log.OnPrepare(sqlText)
	return s.fail(bind.Error(s.h, s.h.Prepare(sqlText)), "prepare")
}

// ExecuteDirect executes sqlText without a separate prepare step.
func (s *Statement) ExecuteDirect(sqlText string) error {
	s.reset()
	s.text = sqlText
	s.log.OnExecuteDirect(sqlText)
	return s.fail(bind.Error(s.h, s.h.ExecDirect(sqlText)), "execute direct")
}

// Execute runs the prepared statement. Post-execute callbacks run once
// after a successful execute and the retained-buffer arena is drained.
func (s *Statement) Execute() error {
	s.log.OnExecute(s.text)
	if err := bind.Error(s.h, s.h.Execute()); err != nil {
		return s.fail(err, "execute")
	}
	for _, fn := range s.postExec {
		fn()
	}
	s.postExec = nil
	s.arena = nil
	return nil
}

// BindValue binds v as the input parameter at index (1-based).
func (s *Statement) BindValue(index int, v *bind.Value) error {
	return s.fail(bind.BindInputValue(s.h, index, v, s.kind, s), "bind parameter")
}

// BindColumn binds v as the output destination for column col (1-based).
// The post-fetch fixup registered by the codec runs on every FetchRow.
func (s *Statement) BindColumn(col int, v *bind.Value) error {
	return s.fail(bind.BindOutputValue(s.h, col, v, s), "bind column")
}

// FetchColumn pulls column col of the current row into v without a
// prior bind.
func (s *Statement) FetchColumn(col int, v *bind.Value) error {
	return s.fail(bind.FetchValue(s.h, col, v), "fetch column")
}

// FetchVariant pulls column col, deciding the value kind from the
// driver's runtime column metadata.
func (s *Statement) FetchVariant(col int) (*bind.Value, error) {
	v, err := bind.FetchVariant(s.h, col)
	return v, s.fail(err, "fetch variant")
}

// ExecuteWithValues binds values in parameter-position order and
// executes. The placeholder count is validated first; a mismatch is an
// ArgumentCountError, detected before execution is attempted.
func (s *Statement) ExecuteWithValues(values ...*bind.Value) error {
	want, st := s.h.NumParams()
	if !st.OK() {
		want = bind.CountMarkers(s.text)
	}
	if want != len(values) {
		return s.fail(sqlkit.NewArgumentCountError(want, len(values)), "execute")
	}
	for i, v := range values {
		if err := s.BindValue(i+1, v); err != nil {
			return err
		}
	}
	return s.Execute()
}

// FetchRow advances to the next row. It returns false with a nil error
// past the last row. Post-fetch callbacks run once per fetched row.
func (s *Statement) FetchRow() (bool, error) {
	st := s.h.Fetch()
	if st == bind.StatusNoData {
		return false, nil
	}
	if err := bind.Error(s.h, st); err != nil {
		return false, s.fail(err, "fetch")
	}
	for _, fn := range s.postFetch {
		if err := fn(); err != nil {
			return false, s.fail(err, "post fetch")
		}
	}
	return true, nil
}

// CloseCursor releases the current result set, leaving the statement
// usable for a subsequent Prepare.
func (s *Statement) CloseCursor() error {
	return s.fail(bind.Error(s.h, s.h.CloseCursor()), "close cursor")
}

// NumRowsAffected reports the row count of the last DML execute.
func (s *Statement) NumRowsAffected() (int64, error) {
	n, st := s.h.RowsAffected()
	return n, s.fail(bind.Error(s.h, st), "rows affected")
}

// LastInsertID reports the identity value generated by the last insert.
func (s *Statement) LastInsertID() (int64, error) {
	id, st := s.h.LastInsertID()
	return id, s.fail(bind.Error(s.h, st), "last insert id")
}

// Warn forwards a recoverable anomaly to the diagnostics sink.
func (s *Statement) Warn(text string) { s.log.OnWarning(text) }

var _ bind.Deferrer = (*Statement)(nil)
