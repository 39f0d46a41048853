package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y IN (?,?)"
	require.Equal(t, q, SQLite.Rebind(q))
	require.Equal(t, "SELECT a FROM t WHERE x = $1 AND y IN ($2,$3)", Postgres.Rebind(q))
}

func TestPlaceholders(t *testing.T) {
	require.Equal(t, "", Placeholders(0))
	require.Equal(t, "?", Placeholders(1))
	require.Equal(t, "?,?,?", Placeholders(3))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("Postgres")
	require.NoError(t, err)
	require.Equal(t, Postgres, d)

	d, err = ParseDialect("pgx")
	require.NoError(t, err)
	require.Equal(t, Postgres, d)

	_, err = ParseDialect("mysql")
	require.Error(t, err)
}

func TestOpenSQLiteMemory(t *testing.T) {
	conn, err := Open(SQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec("CREATE TABLE t (x INTEGER)")
	require.NoError(t, err)
}
