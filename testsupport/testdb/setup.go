package testdb

import (
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	tcpg "github.com/mpapenbr/iracelog-telemetry-analyzer/testsupport/tcpostgres"
)

// InitTestDb returns a pool on an empty, migrated database.
// The test is skipped in short mode since it needs docker or TESTDB_URL.
func InitTestDb(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("database tests are skipped in short mode")
	}
	var pool *pgxpool.Pool

	if os.Getenv("TESTDB_URL") != "" {
		pool = tcpg.SetupExternalTestDb()
	} else {
		pool = tcpg.SetupTestDb()
	}
	tcpg.ClearAllTables(pool)
	t.Cleanup(pool.Close)
	return pool
}
