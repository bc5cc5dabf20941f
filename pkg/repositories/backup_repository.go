package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mspcompass/compass-engine/pkg/apperrors"
	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// BackupRepository defines the interface for backup record bookkeeping.
// Records are insert-only.
type BackupRepository interface {
	Create(ctx context.Context, record *models.BackupRecord) error
	Get(ctx context.Context, id uuid.UUID) (*models.BackupRecord, error)
	List(ctx context.Context, limit int) ([]models.BackupRecord, error)
}

// backupRepository implements BackupRepository using PostgreSQL.
type backupRepository struct {
	db *database.DB
}

// NewBackupRepository creates a new backup repository.
func NewBackupRepository(db *database.DB) BackupRepository {
	return &backupRepository{db: db}
}

var _ BackupRepository = (*backupRepository)(nil)

func (r *backupRepository) Create(ctx context.Context, record *models.BackupRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()

	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal backup metadata: %w", err)
	}

	_, err = r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO backup_records (id, name, backup_type, file_path, file_size, created_by, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.Name, record.Type, record.FilePath, record.FileSize,
		record.CreatedBy, metadataJSON, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create backup record: %w", err)
	}
	return nil
}

func (r *backupRepository) Get(ctx context.Context, id uuid.UUID) (*models.BackupRecord, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, `
		SELECT id, name, backup_type, file_path, file_size, created_by, metadata, created_at
		FROM backup_records WHERE id = $1`, id)

	record, err := scanBackupRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("backup %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backup record: %w", err)
	}
	return record, nil
}

func (r *backupRepository) List(ctx context.Context, limit int) ([]models.BackupRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Conn(ctx).Query(ctx, `
		SELECT id, name, backup_type, file_path, file_size, created_by, metadata, created_at
		FROM backup_records
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list backup records: %w", err)
	}
	defer rows.Close()

	var records []models.BackupRecord
	for rows.Next() {
		record, err := scanBackupRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backup record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func scanBackupRecord(row pgx.Row) (*models.BackupRecord, error) {
	var (
		record       models.BackupRecord
		metadataJSON []byte
	)
	err := row.Scan(&record.ID, &record.Name, &record.Type, &record.FilePath,
		&record.FileSize, &record.CreatedBy, &metadataJSON, &record.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal backup metadata: %w", err)
		}
	}
	return &record, nil
}
