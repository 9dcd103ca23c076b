package dialect

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerKindValid(t *testing.T) {
	tests := []struct {
		kind  ServerKind
		valid bool
	}{
		{SQLite, true},
		{MSSQL, true},
		{Postgres, true},
		{Oracle, true},
		{ServerKind("mysql"), false},
		{ServerKind(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.kind.Valid())
		})
	}
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	l.OnPrepare(`SELECT * FROM "users"`)
	l.OnExecuteDirect(`DROP TABLE "tmp"`)
	l.OnExecute(`INSERT INTO "users" ("name") VALUES (?)`)
	l.OnWarning("string data truncated")
	l.OnError(errors.New("boom"), "fetch")

	out := buf.String()
	require.Contains(t, out, "prepare")
	require.Contains(t, out, "exec direct")
	require.Contains(t, out, "string data truncated")
	require.Contains(t, out, "op=fetch")
}

func TestNopLoggerDoesNothing(t *testing.T) {
	var l Logger = NopLogger{}
	l.OnPrepare("x")
	l.OnExecuteDirect("x")
	l.OnExecute("x")
	l.OnWarning("x")
	l.OnError(errors.New("x"), "op")
}
