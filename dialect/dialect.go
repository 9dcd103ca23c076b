// Package dialect names the supported database engines and defines the
// diagnostics contract consumed by the statement layer.
//
// Each engine is identified by a ServerKind constant:
//
//	dialect.SQLite   = "sqlite"
//	dialect.MSSQL    = "mssql"
//	dialect.Postgres = "postgres"
//	dialect.Oracle   = "oracle"
//
// The kind is passed explicitly into bind and render calls; nothing is
// inferred from connection strings or driver names.
package dialect

// ServerKind identifies a target database engine.
type ServerKind string

// Supported engines.
const (
	// SQLite is the default dialect.
	SQLite ServerKind = "sqlite"
	// MSSQL is Microsoft SQL Server.
	MSSQL ServerKind = "mssql"
	// Postgres is PostgreSQL.
	Postgres ServerKind = "postgres"
	// Oracle is Oracle Database.
	Oracle ServerKind = "oracle"
)

// String returns the kind name.
func (k ServerKind) String() string { return string(k) }

// Valid reports whether k names a supported engine.
func (k ServerKind) Valid() bool {
	switch k {
	case SQLite, MSSQL, Postgres, Oracle:
		return true
	}
	return false
}
