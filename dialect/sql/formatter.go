package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/sqlkit"
	"github.com/syssam/sqlkit/dialect"
	"github.com/syssam/sqlkit/schema/field"
)

// Formatter renders composed queries and DDL fragments for one target
// engine. Implementations are stateless process-wide singletons; given
// identical input the rendered text is byte-identical.
type Formatter interface {
	// Kind returns the engine this formatter targets.
	Kind() dialect.ServerKind

	// Format renders a finalized composed query.
	Format(q *ComposedQuery) (string, error)

	// BoolLiteral renders a boolean literal.
	BoolLiteral(b bool) string

	// ColumnType renders the concrete SQL type for a column definition.
	ColumnType(def field.TypeDef) string

	// AutoIncrementColumn renders the full column definition of an
	// auto-increment primary key.
	AutoIncrementColumn(name string) string

	// LastInsertIDQuery renders the statement that reads back the
	// identity value generated for the given table and column.
	LastInsertIDQuery(table, column string) string

	// AddColumnKeyword returns the keyword introducing an added column in
	// ALTER TABLE, with or without the COLUMN noise word.
	AddColumnKeyword() string

	// RenameColumn renders an ALTER statement renaming a column.
	RenameColumn(table, old, new string) string

	// DropIndex renders the statement dropping the named index.
	DropIndex(table, index string) string
}

var formatters = map[dialect.ServerKind]Formatter{
	dialect.SQLite:   sqliteFormatter{},
	dialect.MSSQL:    mssqlFormatter{},
	dialect.Postgres: postgresFormatter{},
	dialect.Oracle:   oracleFormatter{},
}

// FormatterFor returns the process-wide formatter for the given engine.
func FormatterFor(kind dialect.ServerKind) (Formatter, error) {
	f, ok := formatters[kind]
	if !ok {
		return nil, fmt.Errorf("sqlkit: no formatter for dialect %q", kind)
	}
	return f, nil
}

// Format renders q for the given engine.
func Format(kind dialect.ServerKind, q *ComposedQuery) (string, error) {
	f, err := FormatterFor(kind)
	if err != nil {
		return "", err
	}
	return f.Format(q)
}

// whereClause joins the main condition string with the side list of
// boolean comparisons, resolving boolean literals through f.
func whereClause(f Formatter, q *ComposedQuery) string {
	var sb strings.Builder
	sb.WriteString(q.Where)
	for _, bc := range q.BoolConds {
		expr := Quote(bc.Column) + " " + bc.Op + " " + f.BoolLiteral(bc.Value)
		if bc.Negated {
			expr = "NOT (" + expr + ")"
		}
		if sb.Len() > 0 {
			sb.WriteString(" " + bc.Junctor + " ")
		}
		sb.WriteString(expr)
	}
	return sb.String()
}

// selectColumns renders the projection list; an empty list means "*".
func selectColumns(q *ComposedQuery) string {
	if len(q.Columns) == 0 {
		return "*"
	}
	cols := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		cols[i] = Quote(c)
	}
	return strings.Join(cols, ", ")
}

// formatSelect renders the dialect-independent spine of a SELECT. The
// top fragment goes between SELECT and the columns; the tail fragment
// goes after ORDER BY.
func formatSelect(f Formatter, q *ComposedQuery, top, tail string) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if top != "" {
		sb.WriteString(top + " ")
	}
	if q.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if q.Kind == KindSelectCount {
		sb.WriteString("COUNT(*)")
	} else {
		sb.WriteString(selectColumns(q))
	}
	sb.WriteString(" FROM " + Quote(q.Table))
	if q.Alias != "" {
		sb.WriteString(" AS " + Quote(q.Alias))
	}
	for _, j := range q.Joins {
		sb.WriteString(" " + j)
	}
	if w := whereClause(f, q); w != "" {
		sb.WriteString(" WHERE " + w)
	}
	if len(q.GroupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(q.GroupBy, ", "))
	}
	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(q.OrderBy, ", "))
	}
	if tail != "" {
		sb.WriteString(" " + tail)
	}
	return sb.String()
}

// formatInsert renders an INSERT statement.
func formatInsert(q *ComposedQuery) string {
	cols := make([]string, len(q.SetColumns))
	for i, c := range q.SetColumns {
		cols[i] = Quote(c)
	}
	return "INSERT INTO " + Quote(q.Table) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(q.SetExprs, ", ") + ")"
}

// formatUpdate renders an UPDATE statement.
func formatUpdate(f Formatter, q *ComposedQuery) string {
	sets := make([]string, len(q.SetColumns))
	for i, c := range q.SetColumns {
		sets[i] = Quote(c) + " = " + q.SetExprs[i]
	}
	text := "UPDATE " + Quote(q.Table) + " SET " + strings.Join(sets, ", ")
	if w := whereClause(f, q); w != "" {
		text += " WHERE " + w
	}
	return text
}

// formatDelete renders a DELETE statement.
func formatDelete(f Formatter, q *ComposedQuery) string {
	text := "DELETE FROM " + Quote(q.Table)
	if w := whereClause(f, q); w != "" {
		text += " WHERE " + w
	}
	return text
}

// formatDML dispatches the kinds every dialect renders identically.
func formatDML(f Formatter, q *ComposedQuery) (string, bool) {
	switch q.Kind {
	case KindInsert:
		return formatInsert(q), true
	case KindUpdate:
		return formatUpdate(f, q), true
	case KindDelete:
		return formatDelete(f, q), true
	}
	return "", false
}

// limitOffsetTail renders the LIMIT/OFFSET pagination family.
func limitOffsetTail(q *ComposedQuery) string {
	switch q.Kind {
	case KindSelectFirst:
		return "LIMIT " + strconv.Itoa(q.Limit)
	case KindSelectRange:
		return "LIMIT " + strconv.Itoa(q.Limit) + " OFFSET " + strconv.Itoa(q.Offset)
	}
	return ""
}

// offsetFetchTail renders the OFFSET/FETCH range used by the SQL Server
// and Oracle family. It requires a non-empty ORDER BY.
func offsetFetchTail(q *ComposedQuery) (string, error) {
	if len(q.OrderBy) == 0 {
		return "", sqlkit.ErrMissingOrderBy
	}
	return "OFFSET " + strconv.Itoa(q.Offset) + " ROWS FETCH NEXT " +
		strconv.Itoa(q.Limit) + " ROWS ONLY", nil
}

// sqliteFormatter renders for SQLite. It is also the default rendering
// other dialects diverge from.
type sqliteFormatter struct{}

func (sqliteFormatter) Kind() dialect.ServerKind { return dialect.SQLite }

func (sqliteFormatter) BoolLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (f sqliteFormatter) Format(q *ComposedQuery) (string, error) {
	if text, ok := formatDML(f, q); ok {
		return text, nil
	}
	return formatSelect(f, q, "", limitOffsetTail(q)), nil
}

func (sqliteFormatter) ColumnType(def field.TypeDef) string {
	switch def.Type {
	case field.TypeBool:
		return "BOOLEAN"
	case field.TypeChar:
		return fmt.Sprintf("CHAR(%d)", def.Size)
	case field.TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", def.Size)
	case field.TypeNChar:
		return fmt.Sprintf("NCHAR(%d)", def.Size)
	case field.TypeNVarchar:
		return fmt.Sprintf("NVARCHAR(%d)", def.Size)
	case field.TypeText:
		return "TEXT"
	case field.TypeSmallInt:
		return "SMALLINT"
	case field.TypeInt:
		return "INTEGER"
	case field.TypeBigInt:
		return "BIGINT"
	case field.TypeReal:
		return "REAL"
	case field.TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", def.Precision, def.Scale)
	case field.TypeDate:
		return "DATE"
	case field.TypeTime:
		return "TIME"
	case field.TypeDateTime:
		return "DATETIME"
	case field.TypeTimestamp:
		return "TIMESTAMP"
	case field.TypeGUID:
		return "GUID"
	}
	return ""
}

func (sqliteFormatter) AutoIncrementColumn(name string) string {
	return Quote(name) + " INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (sqliteFormatter) LastInsertIDQuery(string, string) string {
	return "SELECT last_insert_rowid()"
}

func (sqliteFormatter) AddColumnKeyword() string { return "ADD COLUMN" }

func (sqliteFormatter) RenameColumn(table, old, new string) string {
	return "ALTER TABLE " + Quote(table) + " RENAME COLUMN " + Quote(old) + " TO " + Quote(new) + ";"
}

func (sqliteFormatter) DropIndex(_, index string) string {
	return "DROP INDEX " + Quote(index) + ";"
}

// mssqlFormatter renders for SQL Server. Identifier quoting stays
// double-quoted rather than bracketed for cross-dialect compatibility.
type mssqlFormatter struct{}

func (mssqlFormatter) Kind() dialect.ServerKind { return dialect.MSSQL }

func (mssqlFormatter) BoolLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (f mssqlFormatter) Format(q *ComposedQuery) (string, error) {
	if text, ok := formatDML(f, q); ok {
		return text, nil
	}
	switch q.Kind {
	case KindSelectFirst:
		return formatSelect(f, q, "TOP "+strconv.Itoa(q.Limit), ""), nil
	case KindSelectRange:
		tail, err := offsetFetchTail(q)
		if err != nil {
			return "", err
		}
		return formatSelect(f, q, "", tail), nil
	}
	return formatSelect(f, q, "", ""), nil
}

func (f mssqlFormatter) ColumnType(def field.TypeDef) string {
	switch def.Type {
	case field.TypeBool:
		return "BIT"
	case field.TypeText:
		return "VARCHAR(MAX)"
	case field.TypeReal:
		return "FLOAT"
	case field.TypeDateTime:
		return "DATETIME"
	case field.TypeTimestamp:
		return "DATETIME2"
	case field.TypeGUID:
		return "UNIQUEIDENTIFIER"
	}
	return sqliteFormatter{}.ColumnType(def)
}

func (mssqlFormatter) AutoIncrementColumn(name string) string {
	return Quote(name) + " INTEGER IDENTITY(1,1) PRIMARY KEY"
}

func (mssqlFormatter) LastInsertIDQuery(string, string) string {
	return "SELECT SCOPE_IDENTITY()"
}

func (mssqlFormatter) AddColumnKeyword() string { return "ADD" }

func (mssqlFormatter) RenameColumn(table, old, new string) string {
	return "EXEC sp_rename '" + table + "." + old + "', '" + new + "', 'COLUMN';"
}

func (mssqlFormatter) DropIndex(table, index string) string {
	return "DROP INDEX " + Quote(index) + " ON " + Quote(table) + ";"
}

// postgresFormatter renders for PostgreSQL. Wide character types render
// as their narrow counterparts; the wire encoding is UTF-8 throughout.
type postgresFormatter struct{}

func (postgresFormatter) Kind() dialect.ServerKind { return dialect.Postgres }

func (postgresFormatter) BoolLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (f postgresFormatter) Format(q *ComposedQuery) (string, error) {
	if text, ok := formatDML(f, q); ok {
		return text, nil
	}
	return formatSelect(f, q, "", limitOffsetTail(q)), nil
}

func (f postgresFormatter) ColumnType(def field.TypeDef) string {
	switch def.Type {
	case field.TypeNChar:
		return fmt.Sprintf("CHAR(%d)", def.Size)
	case field.TypeNVarchar:
		return fmt.Sprintf("VARCHAR(%d)", def.Size)
	case field.TypeReal:
		return "DOUBLE PRECISION"
	case field.TypeDateTime:
		return "TIMESTAMP"
	case field.TypeGUID:
		return "UUID"
	}
	return sqliteFormatter{}.ColumnType(def)
}

func (postgresFormatter) AutoIncrementColumn(name string) string {
	return Quote(name) + " SERIAL PRIMARY KEY"
}

func (postgresFormatter) LastInsertIDQuery(table, column string) string {
	return "SELECT currval(pg_get_serial_sequence('" + table + "', '" + column + "'))"
}

func (postgresFormatter) AddColumnKeyword() string { return "ADD COLUMN" }

func (postgresFormatter) RenameColumn(table, old, new string) string {
	return "ALTER TABLE " + Quote(table) + " RENAME COLUMN " + Quote(old) + " TO " + Quote(new) + ";"
}

func (postgresFormatter) DropIndex(_, index string) string {
	return "DROP INDEX " + Quote(index) + ";"
}

// oracleFormatter renders for Oracle.
type oracleFormatter struct{}

func (oracleFormatter) Kind() dialect.ServerKind { return dialect.Oracle }

func (oracleFormatter) BoolLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (f oracleFormatter) Format(q *ComposedQuery) (string, error) {
	if text, ok := formatDML(f, q); ok {
		return text, nil
	}
	switch q.Kind {
	case KindSelectFirst:
		return formatSelect(f, q, "", "FETCH FIRST "+strconv.Itoa(q.Limit)+" ROWS ONLY"), nil
	case KindSelectRange:
		tail, err := offsetFetchTail(q)
		if err != nil {
			return "", err
		}
		return formatSelect(f, q, "", tail), nil
	}
	return formatSelect(f, q, "", ""), nil
}

func (f oracleFormatter) ColumnType(def field.TypeDef) string {
	switch def.Type {
	case field.TypeBool:
		return "BIT"
	case field.TypeVarchar:
		return fmt.Sprintf("VARCHAR2(%d)", def.Size)
	case field.TypeNVarchar:
		return fmt.Sprintf("NVARCHAR2(%d)", def.Size)
	case field.TypeText:
		// Sized text within the VARCHAR2 ceiling stays addressable as a
		// plain string type; anything larger becomes a CLOB.
		if def.Size > 0 && def.Size <= 4000 {
			return fmt.Sprintf("VARCHAR2(%d)", def.Size)
		}
		return "CLOB"
	case field.TypeBigInt:
		return "NUMBER(19,0)"
	case field.TypeReal:
		return "BINARY_DOUBLE"
	case field.TypeDecimal:
		return fmt.Sprintf("NUMBER(%d,%d)", def.Precision, def.Scale)
	case field.TypeTime:
		return "TIMESTAMP"
	case field.TypeDateTime:
		return "TIMESTAMP"
	case field.TypeGUID:
		return "RAW(16)"
	}
	return sqliteFormatter{}.ColumnType(def)
}

func (oracleFormatter) AutoIncrementColumn(name string) string {
	return Quote(name) + " NUMBER(19,0) GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
}

func (oracleFormatter) LastInsertIDQuery(table, _ string) string {
	return `SELECT "` + table + `_seq".CURRVAL FROM DUAL`
}

func (oracleFormatter) AddColumnKeyword() string { return "ADD" }

func (oracleFormatter) RenameColumn(table, old, new string) string {
	return "ALTER TABLE " + Quote(table) + " RENAME COLUMN " + Quote(old) + " TO " + Quote(new) + ";"
}

func (oracleFormatter) DropIndex(_, index string) string {
	return "DROP INDEX " + Quote(index) + ";"
}
