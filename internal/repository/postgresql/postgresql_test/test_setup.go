package postgresqltest

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-portal-go/internal/repository/postgresql"
)

// TestDatabaseSetup holds the connection to the audit test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL. ok is false when it is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := postgresql.EnsureBatchAuditSchema(ctx, db); err != nil {
		db.Close()
		return nil, true, err
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// TruncateAllTables empties the audit tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	_, err := t.DB.Exec(ctx, "TRUNCATE TABLE payment_batch_items, payment_batches CASCADE")
	return err
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
