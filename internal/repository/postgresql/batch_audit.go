package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/batch"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// BatchAuditSchema creates the audit tables. It is safe to run on every start.
const BatchAuditSchema = `
	CREATE TABLE IF NOT EXISTS payment_batches (
		id          UUID PRIMARY KEY,
		domain      TEXT NOT NULL,
		operation   TEXT NOT NULL,
		user_id     TEXT,
		succeeded   INTEGER NOT NULL,
		failed      INTEGER NOT NULL,
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payment_batch_items (
		batch_id  UUID NOT NULL REFERENCES payment_batches(id) ON DELETE CASCADE,
		record_id BIGINT NOT NULL,
		succeeded BOOLEAN NOT NULL,
		error     TEXT,
		PRIMARY KEY (batch_id, record_id)
	);
`

type batchAuditRepository struct {
	db *database.DB
}

func NewBatchAuditRepository(db *database.DB) payroll.BatchRecorder {
	return &batchAuditRepository{db: db}
}

// EnsureBatchAuditSchema creates the audit tables when missing.
func EnsureBatchAuditSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, BatchAuditSchema); err != nil {
		return fmt.Errorf("failed to create batch audit schema: %w", err)
	}
	return nil
}

// RecordBatch stores the batch and one row per outcome in one transaction.
func (r *batchAuditRepository) RecordBatch(ctx context.Context, domain string, result batch.Result) error {
	var userID *string
	if s, err := session.FromContext(ctx); err == nil && s.UserID != "" {
		userID = &s.UserID
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO payment_batches (id, domain, operation, user_id, succeeded, failed, started_at, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.Exec(ctx, query,
			result.ID, domain, result.Operation, userID,
			result.Succeeded(), result.Failed(),
			result.StartedAt, result.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment batch: %w", err)
		}

		if len(result.Outcomes) == 0 {
			return nil
		}

		rows := make([][]interface{}, 0, len(result.Outcomes))
		for _, o := range result.Outcomes {
			var errMsg *string
			if o.Err != nil {
				msg := o.Err.Error()
				errMsg = &msg
			}
			rows = append(rows, []interface{}{result.ID, o.ItemID, o.Succeeded(), errMsg})
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"payment_batch_items"},
			[]string{"batch_id", "record_id", "succeeded", "error"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment batch items: %w", err)
		}
		return nil
	})
}
