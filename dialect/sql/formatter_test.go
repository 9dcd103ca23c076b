package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlkit"
	"github.com/syssam/sqlkit/dialect"
	"github.com/syssam/sqlkit/schema/field"
)

func TestFormatterFor(t *testing.T) {
	for _, kind := range []dialect.ServerKind{
		dialect.SQLite, dialect.MSSQL, dialect.Postgres, dialect.Oracle,
	} {
		f, err := FormatterFor(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, f.Kind())
	}
	_, err := FormatterFor("mysql")
	require.Error(t, err)
}

func TestPaginationDivergence(t *testing.T) {
	q := Table("t").Select().OrderBy("id").Range(10, 5)

	assert.Equal(t, `SELECT * FROM "t" ORDER BY "id" LIMIT 5 OFFSET 10`,
		mustFormat(t, dialect.SQLite, q))
	assert.Equal(t, `SELECT * FROM "t" ORDER BY "id" LIMIT 5 OFFSET 10`,
		mustFormat(t, dialect.Postgres, q))
	assert.Equal(t,
		`SELECT * FROM "t" ORDER BY "id" OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY`,
		mustFormat(t, dialect.MSSQL, q))
	assert.Equal(t,
		`SELECT * FROM "t" ORDER BY "id" OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY`,
		mustFormat(t, dialect.Oracle, q))
}

func TestRangeRequiresOrderBy(t *testing.T) {
	q := Table("t").Select().Range(10, 5)

	// The LIMIT/OFFSET family paginates over the storage order.
	_, err := Format(dialect.SQLite, q)
	require.NoError(t, err)

	for _, kind := range []dialect.ServerKind{dialect.MSSQL, dialect.Oracle} {
		_, err := Format(kind, q)
		require.ErrorIs(t, err, sqlkit.ErrMissingOrderBy, "dialect %s", kind)
	}
}

func TestFirstDivergence(t *testing.T) {
	q := Table("t").Select().First(3)

	assert.Equal(t, `SELECT * FROM "t" LIMIT 3`, mustFormat(t, dialect.SQLite, q))
	assert.Equal(t, `SELECT * FROM "t" LIMIT 3`, mustFormat(t, dialect.Postgres, q))
	assert.Equal(t, `SELECT TOP 3 * FROM "t"`, mustFormat(t, dialect.MSSQL, q))
	assert.Equal(t, `SELECT * FROM "t" FETCH FIRST 3 ROWS ONLY`,
		mustFormat(t, dialect.Oracle, q))
}

func TestColumnTypes(t *testing.T) {
	tests := []struct {
		def      field.TypeDef
		sqlite   string
		mssql    string
		postgres string
		oracle   string
	}{
		{field.Bool(), "BOOLEAN", "BIT", "BOOLEAN", "BIT"},
		{field.Char(4), "CHAR(4)", "CHAR(4)", "CHAR(4)", "CHAR(4)"},
		{field.Varchar(64), "VARCHAR(64)", "VARCHAR(64)", "VARCHAR(64)", "VARCHAR2(64)"},
		{field.NVarchar(64), "NVARCHAR(64)", "NVARCHAR(64)", "VARCHAR(64)", "NVARCHAR2(64)"},
		{field.Text(0), "TEXT", "VARCHAR(MAX)", "TEXT", "CLOB"},
		{field.Text(2000), "TEXT", "VARCHAR(MAX)", "TEXT", "VARCHAR2(2000)"},
		{field.Text(8000), "TEXT", "VARCHAR(MAX)", "TEXT", "CLOB"},
		{field.SmallInt(), "SMALLINT", "SMALLINT", "SMALLINT", "SMALLINT"},
		{field.Int(), "INTEGER", "INTEGER", "INTEGER", "INTEGER"},
		{field.BigInt(), "BIGINT", "BIGINT", "BIGINT", "NUMBER(19,0)"},
		{field.Decimal(10, 2), "DECIMAL(10,2)", "DECIMAL(10,2)", "DECIMAL(10,2)", "NUMBER(10,2)"},
		{field.Date(), "DATE", "DATE", "DATE", "DATE"},
		{field.DateTime(), "DATETIME", "DATETIME", "TIMESTAMP", "TIMESTAMP"},
		{field.Timestamp(), "TIMESTAMP", "DATETIME2", "TIMESTAMP", "TIMESTAMP"},
		{field.GUID(), "GUID", "UNIQUEIDENTIFIER", "UUID", "RAW(16)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.sqlite, sqliteFormatter{}.ColumnType(tt.def), "sqlite %s", tt.def.Type)
		assert.Equal(t, tt.mssql, mssqlFormatter{}.ColumnType(tt.def), "mssql %s", tt.def.Type)
		assert.Equal(t, tt.postgres, postgresFormatter{}.ColumnType(tt.def), "postgres %s", tt.def.Type)
		assert.Equal(t, tt.oracle, oracleFormatter{}.ColumnType(tt.def), "oracle %s", tt.def.Type)
	}
}

func TestAutoIncrementColumn(t *testing.T) {
	assert.Equal(t, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`,
		sqliteFormatter{}.AutoIncrementColumn("id"))
	assert.Equal(t, `"id" INTEGER IDENTITY(1,1) PRIMARY KEY`,
		mssqlFormatter{}.AutoIncrementColumn("id"))
	assert.Equal(t, `"id" SERIAL PRIMARY KEY`,
		postgresFormatter{}.AutoIncrementColumn("id"))
	assert.Equal(t, `"id" NUMBER(19,0) GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY`,
		oracleFormatter{}.AutoIncrementColumn("id"))
}

func TestLastInsertIDQuery(t *testing.T) {
	assert.Equal(t, "SELECT last_insert_rowid()",
		sqliteFormatter{}.LastInsertIDQuery("users", "id"))
	assert.Equal(t, "SELECT SCOPE_IDENTITY()",
		mssqlFormatter{}.LastInsertIDQuery("users", "id"))
	assert.Equal(t, "SELECT currval(pg_get_serial_sequence('users', 'id'))",
		postgresFormatter{}.LastInsertIDQuery("users", "id"))
	assert.Equal(t, `SELECT "users_seq".CURRVAL FROM DUAL`,
		oracleFormatter{}.LastInsertIDQuery("users", "id"))
}

func TestBoolLiteral(t *testing.T) {
	assert.Equal(t, "TRUE", sqliteFormatter{}.BoolLiteral(true))
	assert.Equal(t, "FALSE", postgresFormatter{}.BoolLiteral(false))
	assert.Equal(t, "1", mssqlFormatter{}.BoolLiteral(true))
	assert.Equal(t, "0", oracleFormatter{}.BoolLiteral(false))
}

func TestRenameColumn(t *testing.T) {
	assert.Equal(t, `ALTER TABLE "t" RENAME COLUMN "a" TO "b";`,
		sqliteFormatter{}.RenameColumn("t", "a", "b"))
	assert.Equal(t, `EXEC sp_rename 't.a', 'b', 'COLUMN';`,
		mssqlFormatter{}.RenameColumn("t", "a", "b"))
}

func TestDropIndex(t *testing.T) {
	assert.Equal(t, `DROP INDEX "t_a_index";`, sqliteFormatter{}.DropIndex("t", "t_a_index"))
	assert.Equal(t, `DROP INDEX "t_a_index" ON "t";`, mssqlFormatter{}.DropIndex("t", "t_a_index"))
}
