// Package bind implements the wire-level parameter/column binding
// protocol: a discriminated Value union over the supported semantic
// kinds, per-kind codecs that bind input parameters and output columns
// against a narrow driver handle, and a single truncation/streaming
// engine for variable-length column data.
package bind

import (
	"github.com/syssam/sqlkit"
)

// Status is a driver return code, following the usual C driver
// conventions so adapters can pass codes through unchanged.
type Status int8

// Driver status codes.
const (
	StatusSuccess         Status = 0
	StatusSuccessWithInfo Status = 1
	StatusError           Status = -1
	StatusInvalidHandle   Status = -2
	StatusNoData          Status = 100
)

// OK reports whether the status indicates a completed operation.
func (s Status) OK() bool {
	return s == StatusSuccess || s == StatusSuccessWithInfo
}

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSuccessWithInfo:
		return "success with info"
	case StatusError:
		return "error"
	case StatusInvalidHandle:
		return "invalid handle"
	case StatusNoData:
		return "no data"
	}
	return "unknown"
}

// Indicator reports the actual length of fetched column data in bytes,
// or one of the sentinel values below.
type Indicator int64

// Indicator sentinels.
const (
	// NullData marks a fetched value as SQL NULL.
	NullData Indicator = -1
	// NoTotal marks that the server cannot report the remaining length of
	// a variable-length value.
	NoTotal Indicator = -4
)

// SQLType tags the wire-level SQL type of a parameter or column.
type SQLType uint8

// Wire-level SQL types.
const (
	SQLUnknown SQLType = iota
	SQLBit
	SQLSmallInt
	SQLInteger
	SQLBigInt
	SQLReal
	SQLDouble
	SQLChar
	SQLVarchar
	SQLLongVarchar
	SQLWChar
	SQLWVarchar
	SQLDate
	SQLTime
	SQLTimestamp
	SQLNumeric
	SQLGUID
	SQLNull
	SQLBinary
)

// String returns the SQL type name.
func (t SQLType) String() string {
	switch t {
	case SQLBit:
		return "BIT"
	case SQLSmallInt:
		return "SMALLINT"
	case SQLInteger:
		return "INTEGER"
	case SQLBigInt:
		return "BIGINT"
	case SQLReal:
		return "REAL"
	case SQLDouble:
		return "DOUBLE"
	case SQLChar:
		return "CHAR"
	case SQLVarchar:
		return "VARCHAR"
	case SQLLongVarchar:
		return "LONGVARCHAR"
	case SQLWChar:
		return "WCHAR"
	case SQLWVarchar:
		return "WVARCHAR"
	case SQLDate:
		return "DATE"
	case SQLTime:
		return "TIME"
	case SQLTimestamp:
		return "TIMESTAMP"
	case SQLNumeric:
		return "NUMERIC"
	case SQLGUID:
		return "GUID"
	case SQLNull:
		return "NULL"
	case SQLBinary:
		return "BINARY"
	}
	return "UNKNOWN"
}

// DiagRecord carries the driver's diagnostic text and SQLSTATE for the
// most recent failed operation on a handle.
type DiagRecord struct {
	Message string
	State   string
}

// StateInvalidDescriptorIndex is the SQLSTATE drivers report when a bound
// parameter index does not match the prepared statement. It is mapped to
// an ArgumentCountError instead of a generic DriverError.
const StateInvalidDescriptorIndex = "07009"

// ColumnMeta describes a result-set column as reported by the driver.
type ColumnMeta struct {
	Name      string
	Type      SQLType
	Size      int
	Precision int
	Scale     int
	Nullable  bool
}

// Param is an input parameter in wire form. Value holds the transport
// representation produced by a codec: bool, int64, uint64, float64,
// string, []byte, or time.Time. A nil Value with Null set binds SQL NULL.
type Param struct {
	Type  SQLType
	Value any
	Null  bool
}

// ColumnBinding is a pre-sized output buffer for driver-driven column
// fetch. The driver writes up to len(Buf) bytes on each fetched row and
// sets Ind to the total available length, NullData, or NoTotal. ElemSize
// is 2 for wide (UTF-16) columns, 1 otherwise; drivers must write whole
// code units.
type ColumnBinding struct {
	Type     SQLType
	Buf      []byte
	ElemSize int
	Ind      Indicator
}

// Handle is the narrow statement/handle interface consumed from the
// driver layer. All calls block until the driver responds. A handle must
// not be shared between goroutines.
type Handle interface {
	Prepare(text string) Status
	ExecDirect(text string) Status
	Execute() Status
	Fetch() Status
	CloseCursor() Status

	BindParameter(index int, p Param) Status
	BindColumn(col int, b *ColumnBinding) Status
	// GetData copies up to len(dst) bytes of column data into dst and
	// reports the bytes written plus the indicator for the data that was
	// available before the call. Repeated calls drain the column.
	GetData(col int, dst []byte, elemSize int) (n int, ind Indicator, st Status)

	NumParams() (int, Status)
	NumColumns() (int, Status)
	ColumnMeta(col int) (ColumnMeta, Status)
	RowsAffected() (int64, Status)
	LastInsertID() (int64, Status)

	// Diag returns the diagnostics of the most recent failure.
	Diag() DiagRecord
}

// Deferrer schedules work on the owning statement. Codecs use it to keep
// transcoded buffers alive through execute and to finalize variable
// length columns after each fetch.
type Deferrer interface {
	// AfterExecute schedules fn to run once, immediately after a
	// successful execute.
	AfterExecute(fn func())
	// AfterFetch schedules fn to run once per successfully fetched row.
	AfterFetch(fn func() error)
	// Retain keeps buf reachable until the post-execute queue is drained.
	Retain(buf any)
}

// Error converts a status into a Go error using the handle diagnostics.
// Success statuses map to nil, StatusNoData to sqlkit.ErrNoData, and the
// invalid-descriptor-index SQLSTATE to an ArgumentCountError.
func Error(h Handle, st Status) error {
	switch st {
	case StatusSuccess, StatusSuccessWithInfo:
		return nil
	case StatusNoData:
		return sqlkit.ErrNoData
	case StatusInvalidHandle:
		return sqlkit.ErrInvalidHandle
	}
	d := h.Diag()
	if d.State == StateInvalidDescriptorIndex {
		return sqlkit.NewArgumentCountError(-1, -1)
	}
	return sqlkit.NewDriverError(d.Message, d.State)
}
