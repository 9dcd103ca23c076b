// Package sqlkit is a typed SQL access layer.
//
// It converts native Go values to and from a wire-level parameter/column
// binding protocol, builds SQL text from a fluent, dialect-neutral query
// representation, and renders that representation for multiple SQL engines.
//
// # Architecture
//
// The module is split into small, leaf-first packages:
//
//   - bind: the value codec and truncation/streaming engine. A Value is a
//     discriminated union over the supported semantic kinds (NULL, bool,
//     integers, floats, strings in several encodings, dates and times,
//     fixed-point numerics, GUIDs). Codecs bind values as input parameters,
//     bind output column buffers, and pull columns ad hoc, against the
//     narrow bind.Handle interface consumed from the driver layer.
//   - stmt: the statement execution shell. It owns exactly one handle,
//     schedules post-execute and post-fetch callbacks, and maps driver
//     status codes to Go errors.
//   - dialect/sql: the composed-query builder and the per-dialect
//     formatters, plus a database/sql backed implementation of bind.Handle.
//   - dialect/sql/schema: migration plans (CREATE/ALTER/DROP TABLE) and
//     their deterministic DDL rendering.
//   - schema/field: the closed, dialect-neutral column type tag set.
//   - schema/load: declarative YAML schema files loaded into migration
//     plans.
//
// # Supported engines
//
// SQLite, SQL Server, PostgreSQL and Oracle. Engine-specific syntax
// (pagination, boolean literals, identity columns, native type spelling)
// is concentrated in the dialect/sql formatters; everything else is
// engine-neutral.
//
// # Concurrency
//
// The library is synchronous and single-threaded by contract: a Statement
// and its underlying handle must not be used from multiple goroutines
// without external serialization.
package sqlkit
