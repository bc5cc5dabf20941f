package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// SystemLogRepository provides access to the append-only operation log.
type SystemLogRepository interface {
	Create(ctx context.Context, entry *models.SystemLogEntry) error
	List(ctx context.Context, limit int) ([]models.SystemLogEntry, error)
}

// systemLogRepository implements SystemLogRepository using PostgreSQL.
type systemLogRepository struct {
	db *database.DB
}

// NewSystemLogRepository creates a new system log repository.
func NewSystemLogRepository(db *database.DB) SystemLogRepository {
	return &systemLogRepository{db: db}
}

var _ SystemLogRepository = (*systemLogRepository)(nil)

func (r *systemLogRepository) Create(ctx context.Context, entry *models.SystemLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	var details []byte
	if len(entry.Details) > 0 {
		details = entry.Details
	}

	var targetID *string
	if entry.TargetID != "" {
		targetID = &entry.TargetID
	}
	var errMsg *string
	if entry.ErrorMessage != "" {
		errMsg = &entry.ErrorMessage
	}

	_, err := r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO system_logs (id, operation, target_type, target_id, performed_by,
			details, affected_records, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.Operation, entry.TargetType, targetID, entry.PerformedBy,
		details, entry.AffectedRecords, entry.Status, errMsg, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create system log entry: %w", err)
	}
	return nil
}

func (r *systemLogRepository) List(ctx context.Context, limit int) ([]models.SystemLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Conn(ctx).Query(ctx, `
		SELECT id, operation, target_type, target_id, performed_by, details,
		       affected_records, status, error_message, created_at
		FROM system_logs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list system log entries: %w", err)
	}
	defer rows.Close()

	var entries []models.SystemLogEntry
	for rows.Next() {
		var (
			e        models.SystemLogEntry
			targetID *string
			errMsg   *string
		)
		err := rows.Scan(&e.ID, &e.Operation, &e.TargetType, &targetID, &e.PerformedBy,
			&e.Details, &e.AffectedRecords, &e.Status, &errMsg, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan system log entry: %w", err)
		}
		if targetID != nil {
			e.TargetID = *targetID
		}
		if errMsg != nil {
			e.ErrorMessage = *errMsg
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
