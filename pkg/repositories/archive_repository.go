package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// ArchiveRepository defines the interface for the deleted-data archive.
// Rows land here immediately before bulk deletes so they stay restorable
// for a bounded window.
type ArchiveRepository interface {
	// ArchiveRow stores one row's full content. rowData must marshal to JSON.
	ArchiveRow(ctx context.Context, tableName, rowID string, rowData any, deletedBy uuid.UUID) error
	List(ctx context.Context, tableName string, limit int) ([]models.ArchiveEntry, error)
	// MarkRestored stamps an archive entry as restored.
	MarkRestored(ctx context.Context, id, restoredBy uuid.UUID) error
	// PurgeExpired removes entries past their restore deadline.
	PurgeExpired(ctx context.Context) (int64, error)
}

// archiveRepository implements ArchiveRepository using PostgreSQL.
type archiveRepository struct {
	db *database.DB
}

// NewArchiveRepository creates a new archive repository.
func NewArchiveRepository(db *database.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

var _ ArchiveRepository = (*archiveRepository)(nil)

func (r *archiveRepository) ArchiveRow(ctx context.Context, tableName, rowID string, rowData any, deletedBy uuid.UUID) error {
	dataJSON, err := json.Marshal(rowData)
	if err != nil {
		return fmt.Errorf("failed to marshal archived row: %w", err)
	}

	now := time.Now()
	_, err = r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO deleted_archive (id, table_name, row_id, row_data, deleted_by, deleted_at, restore_deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), tableName, rowID, dataJSON, deletedBy, now,
		now.Add(models.ArchiveRetention))
	if err != nil {
		return fmt.Errorf("failed to archive row: %w", err)
	}
	return nil
}

func (r *archiveRepository) List(ctx context.Context, tableName string, limit int) ([]models.ArchiveEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Conn(ctx).Query(ctx, `
		SELECT id, table_name, row_id, row_data, deleted_by, deleted_at,
		       restore_deadline, restored_at, restored_by
		FROM deleted_archive
		WHERE ($1 = '' OR table_name = $1)
		ORDER BY deleted_at DESC
		LIMIT $2`, tableName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ArchiveEntry
	for rows.Next() {
		var e models.ArchiveEntry
		err := rows.Scan(&e.ID, &e.TableName, &e.RowID, &e.RowData, &e.DeletedBy,
			&e.DeletedAt, &e.RestoreDeadline, &e.RestoredAt, &e.RestoredBy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *archiveRepository) MarkRestored(ctx context.Context, id, restoredBy uuid.UUID) error {
	_, err := r.db.Conn(ctx).Exec(ctx, `
		UPDATE deleted_archive SET restored_at = $2, restored_by = $3 WHERE id = $1`,
		id, time.Now(), restoredBy)
	if err != nil {
		return fmt.Errorf("failed to mark archive entry restored: %w", err)
	}
	return nil
}

func (r *archiveRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM deleted_archive WHERE restore_deadline < now() AND restored_at IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired archive entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
