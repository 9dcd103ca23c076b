package sqlkit

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNoData is returned when a fetch is attempted past the last row of
	// a result set.
	ErrNoData = errors.New("sqlkit: no data")

	// ErrInvalidHandle is returned when an operation is attempted on a
	// released or never-acquired statement handle.
	ErrInvalidHandle = errors.New("sqlkit: invalid statement handle")

	// ErrMissingOrderBy is returned when a range query is rendered for a
	// dialect that requires an ORDER BY clause for OFFSET/FETCH pagination.
	ErrMissingOrderBy = errors.New("sqlkit: range query requires ORDER BY for this dialect")
)

// DriverError represents a failure reported by the underlying driver,
// carrying its diagnostic text and five-character SQLSTATE.
type DriverError struct {
	Message string // Diagnostic text reported by the driver.
	State   string // SQLSTATE, empty if the driver did not report one.
}

// Error returns the error string.
func (e *DriverError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("sqlkit: driver error [%s]: %s", e.State, e.Message)
	}
	return fmt.Sprintf("sqlkit: driver error: %s", e.Message)
}

// NewDriverError returns a new DriverError with the given diagnostics.
func NewDriverError(message, state string) *DriverError {
	return &DriverError{Message: message, State: state}
}

// IsDriverError returns true if the error is a DriverError.
func IsDriverError(err error) bool {
	if err == nil {
		return false
	}
	var e *DriverError
	return errors.As(err, &e)
}

// ArgumentCountError represents a mismatch between the number of
// placeholders in a prepared statement and the number of supplied bound
// values. It is detected before execution is attempted, or mapped from
// the driver's "invalid descriptor index" SQLSTATE.
type ArgumentCountError struct {
	Want int // Number of placeholders in the statement (-1 if unknown).
	Got  int // Number of values supplied (-1 if unknown).
}

// Error returns the error string.
func (e *ArgumentCountError) Error() string {
	if e.Want >= 0 && e.Got >= 0 {
		return fmt.Sprintf("sqlkit: statement expects %d bound values, got %d", e.Want, e.Got)
	}
	return "sqlkit: bound value count does not match statement placeholders"
}

// NewArgumentCountError returns a new ArgumentCountError.
func NewArgumentCountError(want, got int) *ArgumentCountError {
	return &ArgumentCountError{Want: want, Got: got}
}

// IsArgumentCount returns true if the error is an ArgumentCountError.
func IsArgumentCount(err error) bool {
	if err == nil {
		return false
	}
	var e *ArgumentCountError
	return errors.As(err, &e)
}

// UnsupportedTypeError represents a runtime column type that cannot be
// decoded into any supported value kind. Decoding the column aborts; no
// silent default is applied.
type UnsupportedTypeError struct {
	SQLType string // Source type name as reported by the driver.
	Column  int    // 1-based column index.
}

// Error returns the error string.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("sqlkit: unsupported source type %s for column %d", e.SQLType, e.Column)
}

// NewUnsupportedTypeError returns a new UnsupportedTypeError.
func NewUnsupportedTypeError(sqlType string, column int) *UnsupportedTypeError {
	return &UnsupportedTypeError{SQLType: sqlType, Column: column}
}

// IsUnsupportedType returns true if the error is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedTypeError
	return errors.As(err, &e)
}

// ProtocolError represents an internal-consistency violation of the
// truncation/refetch protocol, such as a follow-up fetch whose indicator
// disagrees with the requested remainder. It is a runtime error rather
// than a debug assertion.
type ProtocolError struct {
	Op   string // Operation during which the violation was detected.
	Want int64
	Got  int64
}

// Error returns the error string.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("sqlkit: %s: indicator mismatch (want %d, got %d)", e.Op, e.Want, e.Got)
}

// NewProtocolError returns a new ProtocolError.
func NewProtocolError(op string, want, got int64) *ProtocolError {
	return &ProtocolError{Op: op, Want: want, Got: got}
}

// IsProtocolError returns true if the error is a ProtocolError.
func IsProtocolError(err error) bool {
	if err == nil {
		return false
	}
	var e *ProtocolError
	return errors.As(err, &e)
}
