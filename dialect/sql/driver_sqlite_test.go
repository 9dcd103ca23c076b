package sql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/sqlkit/bind"
	"github.com/syssam/sqlkit/dialect"
)

func sqliteConn(t *testing.T) *Conn {
	t.Helper()
	c, err := Open(dialect.SQLite, "sqlite", ":memory:")
	require.NoError(t, err)
	c.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteRoundTrip(t *testing.T) {
	c := sqliteConn(t)

	st := c.Statement()
	require.NoError(t, st.ExecuteDirect(`CREATE TABLE users (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "name" VARCHAR(64) NOT NULL,
    "bio" TEXT,
    "score" DOUBLE
)`))

	require.NoError(t, st.Prepare(`INSERT INTO users ("name", "bio", "score") VALUES (?, ?, ?)`))
	longBio := strings.Repeat("sqlkit ", 100)
	require.NoError(t, st.ExecuteWithValues(
		bind.NewString("Ada"), bind.NewText(longBio), bind.NewFloat64(9.5),
	))
	require.NoError(t, st.ExecuteWithValues(
		bind.NewString("Grace"), bind.NewNull(bind.KindText), bind.NewFloat64(8.25),
	))

	id, err := st.LastInsertID()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	// Build the read side with the composed-query builder and run it
	// through the same statement shell.
	q := Table("users").WithArgs().
		Select("id", "name", "bio", "score").
		Where("score", ">", 1.0).
		OrderBy("id").
		All()
	text, err := Format(dialect.SQLite, q)
	require.NoError(t, err)

	require.NoError(t, st.Prepare(text))
	require.NoError(t, st.ExecuteWithValues(q.Values...))

	type row struct {
		name, bio string
		bioNull   bool
		score     float64
	}
	var got []row
	for {
		ok, err := st.FetchRow()
		require.NoError(t, err)
		if !ok {
			break
		}
		name, bio, score := bind.NewString(""), bind.NewText(""), bind.NewFloat64(0)
		require.NoError(t, st.FetchColumn(2, name))
		require.NoError(t, st.FetchColumn(3, bio))
		require.NoError(t, st.FetchColumn(4, score))
		got = append(got, row{name.String(), bio.String(), bio.IsNull(), score.Float64()})
	}
	require.NoError(t, st.CloseCursor())

	require.Len(t, got, 2)
	assert.Equal(t, row{"Ada", longBio, false, 9.5}, got[0])
	assert.Equal(t, row{"Grace", "", true, 8.25}, got[1])
}

func TestSQLiteBoundColumns(t *testing.T) {
	c := sqliteConn(t)

	st := c.Statement()
	require.NoError(t, st.ExecuteDirect(`CREATE TABLE notes ("id" INTEGER PRIMARY KEY, "body" TEXT)`))
	body := strings.Repeat("0123456789", 64)
	require.NoError(t, st.Prepare(`INSERT INTO notes ("id", "body") VALUES (?, ?)`))
	require.NoError(t, st.ExecuteWithValues(bind.NewInt64(1), bind.NewText(body)))
	require.NoError(t, st.ExecuteWithValues(bind.NewInt64(2), bind.NewText("short")))

	require.NoError(t, st.Prepare(`SELECT "id", "body" FROM notes ORDER BY "id"`))
	id, text := bind.NewInt64(0), bind.NewText("")
	require.NoError(t, st.BindColumn(1, id))
	require.NoError(t, st.BindColumn(2, text))
	require.NoError(t, st.Execute())

	ok, err := st.FetchRow()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), id.Int64())
	assert.Equal(t, body, text.String())

	ok, err = st.FetchRow()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), id.Int64())
	assert.Equal(t, "short", text.String())

	ok, err = st.FetchRow()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, st.CloseCursor())
}

func TestSQLiteRowCounts(t *testing.T) {
	c := sqliteConn(t)

	st := c.Statement()
	require.NoError(t, st.ExecuteDirect(`CREATE TABLE t ("a" INTEGER)`))
	require.NoError(t, st.ExecuteDirect(`INSERT INTO t ("a") VALUES (1), (2), (3)`))
	require.NoError(t, st.ExecuteDirect(`UPDATE t SET "a" = 0 WHERE "a" > 1`))
	n, err := st.NumRowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSQLiteDriverErrorSurfaces(t *testing.T) {
	c := sqliteConn(t)

	st := c.Statement()
	err := st.ExecuteDirect("SELECT * FROM missing_table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_table")
}
