package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"locatrajes/internal/config"
	"locatrajes/internal/infrastructure/mysql"
)

// SetupTestDB opens the integration database. It expects a MySQL server on
// localhost:3306 with an empty database named 'locatrajes_test' and skips the
// test otherwise.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := mysql.DSN(config.DatabaseConfig{
		Host: "localhost",
		Port: 3306,
		User: "root",
		Name: "locatrajes_test",
	})
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables runs the service migrations against the test database.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := mysql.Migrate(db, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties the rental tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"contract_items", "contracts", "appointments", "transactions", "notifications", "clients", "items"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
