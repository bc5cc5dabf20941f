package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/logging"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/repositories"
)

// ResetResult reports the outcome of a system reset.
type ResetResult struct {
	BackupID        *uuid.UUID     `json:"backupId,omitempty"`
	AffectedRecords int            `json:"affectedRecords"`
	Details         map[string]int `json:"details"`
}

// DeleteResult reports the outcome of a selective delete.
type DeleteResult struct {
	BackupID        *uuid.UUID     `json:"backupId,omitempty"`
	AffectedRecords int            `json:"affectedRecords"`
	Details         map[string]int `json:"details"`
}

// RestoreResult reports the outcome of a restore.
type RestoreResult struct {
	BackupID       uuid.UUID      `json:"backupId"`
	SafetyBackupID uuid.UUID      `json:"safetyBackupId"`
	Restored       map[string]int `json:"restored"`
}

// BackupService owns snapshots of the whole system, restore, and the
// destructive admin operations (reset, selective delete). Every call,
// successful or not, leaves a system log entry. Destructive sequences
// run inside a single transaction so a mid-sequence failure leaves the
// data untouched.
type BackupService interface {
	CreateFullBackup(ctx context.Context, adminID uuid.UUID) (*models.BackupRecord, error)
	CreateSelectiveBackup(ctx context.Context, adminID uuid.UUID, criteria *models.SelectionCriteria) (*models.BackupRecord, error)
	ListBackups(ctx context.Context, limit int) ([]models.BackupRecord, error)

	// RestoreFromBackup replaces current data with the backup's contents.
	// A safety backup of the pre-restore state is taken first.
	RestoreFromBackup(ctx context.Context, adminID, backupID uuid.UUID) (*RestoreResult, error)

	// ResetSystem archives and deletes all assessment data, Q&A, caches,
	// and non-admin users. Admin accounts always survive.
	ResetSystem(ctx context.Context, adminID uuid.UUID, createBackup bool) (*ResetResult, error)

	// DeleteSelective archives and deletes the rows matching criteria.
	DeleteSelective(ctx context.Context, adminID uuid.UUID, criteria *models.SelectionCriteria, createBackup bool) (*DeleteResult, error)

	ListLogs(ctx context.Context, limit int) ([]models.SystemLogEntry, error)
	ListArchive(ctx context.Context, tableName string, limit int) ([]models.ArchiveEntry, error)

	// PurgeExpiredArchives drops archive rows past their restore
	// deadline. Intended to run periodically.
	PurgeExpiredArchives(ctx context.Context) (int64, error)
}

type backupService struct {
	db          database.TxRunner
	users       repositories.UserRepository
	profiles    repositories.ProfileRepository
	assessments repositories.AssessmentRepository
	qa          repositories.QARepository
	caches      repositories.CacheRepository
	backups     repositories.BackupRepository
	archive     repositories.ArchiveRepository
	logs        repositories.SystemLogRepository
	backupDir   string
	logger      *zap.Logger
}

// NewBackupService creates a new BackupService writing snapshot files
// under backupDir.
func NewBackupService(
	db database.TxRunner,
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	assessments repositories.AssessmentRepository,
	qa repositories.QARepository,
	caches repositories.CacheRepository,
	backups repositories.BackupRepository,
	archive repositories.ArchiveRepository,
	logs repositories.SystemLogRepository,
	backupDir string,
	logger *zap.Logger,
) BackupService {
	return &backupService{
		db:          db,
		users:       users,
		profiles:    profiles,
		assessments: assessments,
		qa:          qa,
		caches:      caches,
		backups:     backups,
		archive:     archive,
		logs:        logs,
		backupDir:   backupDir,
		logger:      logger.Named("backup-service"),
	}
}

var _ BackupService = (*backupService)(nil)

func (s *backupService) CreateFullBackup(ctx context.Context, adminID uuid.UUID) (*models.BackupRecord, error) {
	record, err := s.createBackup(ctx, adminID, models.BackupTypeFull, nil)
	if err != nil {
		s.logOp(ctx, models.LogOpBackup, "backup", "", adminID, nil, 0, models.LogStatusFailed, err)
		return nil, err
	}
	s.logOp(ctx, models.LogOpBackup, "backup", record.ID.String(), adminID, record.Metadata, s.metadataTotal(record.Metadata), models.LogStatusSuccess, nil)
	return record, nil
}

func (s *backupService) CreateSelectiveBackup(ctx context.Context, adminID uuid.UUID, criteria *models.SelectionCriteria) (*models.BackupRecord, error) {
	record, err := s.createBackup(ctx, adminID, models.BackupTypeSelective, criteria)
	if err != nil {
		s.logOp(ctx, models.LogOpBackup, "backup", "", adminID, criteria, 0, models.LogStatusFailed, err)
		return nil, err
	}
	s.logOp(ctx, models.LogOpBackup, "backup", record.ID.String(), adminID, record.Metadata, s.metadataTotal(record.Metadata), models.LogStatusSuccess, nil)
	return record, nil
}

func (s *backupService) createBackup(ctx context.Context, adminID uuid.UUID, backupType string, criteria *models.SelectionCriteria) (*models.BackupRecord, error) {
	file, err := s.snapshot(ctx, backupType, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}

	path, size, err := s.writeSnapshot(file, backupType)
	if err != nil {
		return nil, err
	}

	record := &models.BackupRecord{
		Name:      filepath.Base(path),
		Type:      backupType,
		FilePath:  path,
		FileSize:  size,
		CreatedBy: adminID,
		Metadata:  file.Metadata,
	}
	if err := s.backups.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Created backup",
		zap.String("backup_id", record.ID.String()),
		zap.String("type", backupType),
		zap.String("path", path),
		zap.Int64("size_bytes", size))
	return record, nil
}

// snapshot reads the rows a backup covers. For selective backups the
// criteria restrict assessment and Q&A rows; users follow the user
// filter and caches are included only on request.
func (s *backupService) snapshot(ctx context.Context, backupType string, criteria *models.SelectionCriteria) (*models.BackupFile, error) {
	var data models.BackupData
	var err error

	if backupType == models.BackupTypeSelective && criteria != nil {
		data.AssessmentData, err = s.assessments.ListFiltered(ctx, criteria)
		if err != nil {
			return nil, err
		}
		data.ItemQA, err = s.qa.ListFiltered(ctx, criteria)
		if err != nil {
			return nil, err
		}
		if len(criteria.UserIDs) > 0 {
			data.Users, err = s.users.ListByIDs(ctx, criteria.UserIDs)
		} else {
			data.Users, err = s.users.List(ctx)
		}
		if err != nil {
			return nil, err
		}
		data.Profiles, err = s.profilesForUsers(ctx, data.Users)
		if err != nil {
			return nil, err
		}
		if criteria.IncludeCache {
			if err := s.snapshotCaches(ctx, &data); err != nil {
				return nil, err
			}
		}
	} else {
		data.Users, err = s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		data.Profiles, err = s.profiles.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		data.AssessmentData, err = s.assessments.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		data.ItemQA, err = s.qa.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.snapshotCaches(ctx, &data); err != nil {
			return nil, err
		}
	}

	return &models.BackupFile{
		Metadata: models.BackupMetadata{
			Version:           models.BackupFileVersion,
			CreatedAt:         time.Now().UTC(),
			TotalUsers:        len(data.Users),
			TotalAssessments:  len(data.AssessmentData),
			TotalCacheItems:   len(data.AdviceCache) + len(data.VirtualEvidenceCache),
			BackupType:        backupType,
			SelectionCriteria: criteria,
		},
		Data: data,
	}, nil
}

func (s *backupService) snapshotCaches(ctx context.Context, data *models.BackupData) error {
	var err error
	data.AdviceCache, err = s.caches.ListAll(ctx, models.CacheTypeAdvice)
	if err != nil {
		return err
	}
	data.VirtualEvidenceCache, err = s.caches.ListAll(ctx, models.CacheTypeEvidence)
	return err
}

func (s *backupService) profilesForUsers(ctx context.Context, users []models.User) ([]models.Profile, error) {
	all, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	included := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		included[u.ID] = true
	}
	var out []models.Profile
	for _, p := range all {
		if included[p.UserID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *backupService) writeSnapshot(file *models.BackupFile, backupType string) (string, int64, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("%s_backup_%s.json", backupType, time.Now().UTC().Format("2006-01-02T15-04-05"))
	path := filepath.Join(s.backupDir, name)

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write backup file: %w", err)
	}
	return path, int64(len(raw)), nil
}

func (s *backupService) ListBackups(ctx context.Context, limit int) ([]models.BackupRecord, error) {
	return s.backups.List(ctx, limit)
}

func (s *backupService) RestoreFromBackup(ctx context.Context, adminID, backupID uuid.UUID) (*RestoreResult, error) {
	result, err := s.restore(ctx, adminID, backupID)
	if err != nil {
		s.logOp(ctx, models.LogOpRestore, "backup", backupID.String(), adminID, nil, 0, models.LogStatusFailed, err)
		return nil, err
	}
	affected := 0
	for _, n := range result.Restored {
		affected += n
	}
	s.logOp(ctx, models.LogOpRestore, "backup", backupID.String(), adminID, result.Restored, affected, models.LogStatusSuccess, nil)
	return result, nil
}

func (s *backupService) restore(ctx context.Context, adminID, backupID uuid.UUID) (*RestoreResult, error) {
	record, err := s.backups.Get(ctx, backupID)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(record.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}
	var file models.BackupFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}

	// Safety net: snapshot the current state before touching anything.
	safety, err := s.CreateFullBackup(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to create safety backup: %w", err)
	}

	restored := map[string]int{
		"users":                len(file.Data.Users),
		"profiles":             len(file.Data.Profiles),
		"assessmentData":       len(file.Data.AssessmentData),
		"adviceCache":          len(file.Data.AdviceCache),
		"virtualEvidenceCache": len(file.Data.VirtualEvidenceCache),
		"itemQa":               len(file.Data.ItemQA),
	}

	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		// Admin accounts are never wiped; the backup's rows overwrite
		// them by id where present.
		if _, err := s.qa.DeleteAll(ctx); err != nil {
			return err
		}
		if _, err := s.assessments.DeleteAll(ctx); err != nil {
			return err
		}
		// Surviving admins may have created or switched profiles since
		// the snapshot; those rows would collide with the snapshot's
		// active profiles on re-insert. Wipe all profiles so the restore
		// is point-in-time.
		if _, err := s.profiles.DeleteAll(ctx); err != nil {
			return err
		}
		if _, err := s.users.DeleteAllExceptRole(ctx, models.RoleAdmin); err != nil {
			return err
		}
		if _, err := s.caches.DeleteAll(ctx, models.CacheTypeAdvice); err != nil {
			return err
		}
		if _, err := s.caches.DeleteAll(ctx, models.CacheTypeEvidence); err != nil {
			return err
		}

		for i := range file.Data.Users {
			if err := s.users.InsertOrReplace(ctx, &file.Data.Users[i]); err != nil {
				return err
			}
		}
		for i := range file.Data.Profiles {
			if err := s.profiles.InsertOrReplace(ctx, &file.Data.Profiles[i]); err != nil {
				return err
			}
		}
		for i := range file.Data.AssessmentData {
			if err := s.assessments.InsertOrReplace(ctx, &file.Data.AssessmentData[i]); err != nil {
				return err
			}
		}
		for i := range file.Data.AdviceCache {
			if err := s.caches.Upsert(ctx, models.CacheTypeAdvice, &file.Data.AdviceCache[i]); err != nil {
				return err
			}
		}
		for i := range file.Data.VirtualEvidenceCache {
			if err := s.caches.Upsert(ctx, models.CacheTypeEvidence, &file.Data.VirtualEvidenceCache[i]); err != nil {
				return err
			}
		}
		for i := range file.Data.ItemQA {
			if err := s.qa.InsertOrReplace(ctx, &file.Data.ItemQA[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Restored from backup",
		zap.String("backup_id", backupID.String()),
		zap.String("safety_backup_id", safety.ID.String()))
	return &RestoreResult{
		BackupID:       backupID,
		SafetyBackupID: safety.ID,
		Restored:       restored,
	}, nil
}

func (s *backupService) ResetSystem(ctx context.Context, adminID uuid.UUID, createBackup bool) (*ResetResult, error) {
	result := &ResetResult{Details: map[string]int{}}

	if createBackup {
		record, err := s.CreateFullBackup(ctx, adminID)
		if err != nil {
			s.logOp(ctx, models.LogOpReset, "system", "", adminID, nil, 0, models.LogStatusFailed, err)
			return nil, fmt.Errorf("failed to create pre-reset backup: %w", err)
		}
		result.BackupID = &record.ID
	}

	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		qaRows, err := s.qa.DeleteAll(ctx)
		if err != nil {
			return err
		}
		if err := s.archiveQA(ctx, qaRows, adminID); err != nil {
			return err
		}

		items, err := s.assessments.DeleteAll(ctx)
		if err != nil {
			return err
		}
		if err := s.archiveItems(ctx, items, adminID); err != nil {
			return err
		}

		users, err := s.users.DeleteAllExceptRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if err := s.archiveUsers(ctx, users, adminID); err != nil {
			return err
		}

		advice, err := s.caches.DeleteAll(ctx, models.CacheTypeAdvice)
		if err != nil {
			return err
		}
		evidence, err := s.caches.DeleteAll(ctx, models.CacheTypeEvidence)
		if err != nil {
			return err
		}

		result.Details["users"] = len(users)
		result.Details["assessmentData"] = len(items)
		result.Details["itemQa"] = len(qaRows)
		result.Details["adviceCache"] = int(advice)
		result.Details["virtualEvidenceCache"] = int(evidence)
		result.AffectedRecords = len(users) + len(items) + len(qaRows)
		return nil
	})
	if err != nil {
		s.logOp(ctx, models.LogOpReset, "system", "", adminID, nil, 0, models.LogStatusFailed, err)
		return nil, err
	}

	s.logOp(ctx, models.LogOpReset, "system", "", adminID, result.Details, result.AffectedRecords, models.LogStatusSuccess, nil)
	s.logger.Info("System reset complete", zap.Int("affected_records", result.AffectedRecords))
	return result, nil
}

func (s *backupService) DeleteSelective(ctx context.Context, adminID uuid.UUID, criteria *models.SelectionCriteria, createBackup bool) (*DeleteResult, error) {
	result := &DeleteResult{Details: map[string]int{}}

	if createBackup {
		record, err := s.CreateSelectiveBackup(ctx, adminID, criteria)
		if err != nil {
			s.logOp(ctx, models.LogOpDelete, "selection", "", adminID, criteria, 0, models.LogStatusFailed, err)
			return nil, fmt.Errorf("failed to create pre-delete backup: %w", err)
		}
		result.BackupID = &record.ID
	}

	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		items, err := s.assessments.DeleteFiltered(ctx, criteria)
		if err != nil {
			return err
		}
		if err := s.archiveItems(ctx, items, adminID); err != nil {
			return err
		}

		qaRows, err := s.qa.DeleteFiltered(ctx, criteria)
		if err != nil {
			return err
		}
		if err := s.archiveQA(ctx, qaRows, adminID); err != nil {
			return err
		}

		var users []models.User
		if criteria.DeleteUsers && len(criteria.UserIDs) > 0 {
			// Admin accounts are skipped even when listed.
			users, err = s.users.DeleteByIDs(ctx, criteria.UserIDs, models.RoleAdmin)
			if err != nil {
				return err
			}
			if err := s.archiveUsers(ctx, users, adminID); err != nil {
				return err
			}
		}

		result.Details["assessmentData"] = len(items)
		result.Details["itemQa"] = len(qaRows)
		result.Details["users"] = len(users)
		result.AffectedRecords = len(items) + len(qaRows) + len(users)
		return nil
	})
	if err != nil {
		s.logOp(ctx, models.LogOpDelete, "selection", "", adminID, criteria, 0, models.LogStatusFailed, err)
		return nil, err
	}

	s.logOp(ctx, models.LogOpDelete, "selection", "", adminID, result.Details, result.AffectedRecords, models.LogStatusSuccess, nil)
	return result, nil
}

func (s *backupService) archiveUsers(ctx context.Context, users []models.User, deletedBy uuid.UUID) error {
	for i := range users {
		if err := s.archive.ArchiveRow(ctx, "users", users[i].ID.String(), &users[i], deletedBy); err != nil {
			return err
		}
	}
	return nil
}

func (s *backupService) archiveItems(ctx context.Context, items []models.AssessmentItem, deletedBy uuid.UUID) error {
	for i := range items {
		if err := s.archive.ArchiveRow(ctx, "assessment_items", items[i].ID.String(), &items[i], deletedBy); err != nil {
			return err
		}
	}
	return nil
}

func (s *backupService) archiveQA(ctx context.Context, rows []models.QAEntry, deletedBy uuid.UUID) error {
	for i := range rows {
		if err := s.archive.ArchiveRow(ctx, "item_qa", rows[i].ID.String(), &rows[i], deletedBy); err != nil {
			return err
		}
	}
	return nil
}

func (s *backupService) ListLogs(ctx context.Context, limit int) ([]models.SystemLogEntry, error) {
	return s.logs.List(ctx, limit)
}

func (s *backupService) ListArchive(ctx context.Context, tableName string, limit int) ([]models.ArchiveEntry, error) {
	return s.archive.List(ctx, tableName, limit)
}

func (s *backupService) PurgeExpiredArchives(ctx context.Context) (int64, error) {
	purged, err := s.archive.PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("Purged expired archive rows", zap.Int64("rows", purged))
	}
	return purged, nil
}

func (s *backupService) metadataTotal(m models.BackupMetadata) int {
	return m.TotalUsers + m.TotalAssessments + m.TotalCacheItems
}

// logOp writes a system log entry. Logging is best-effort; a failure to
// record the entry never fails the operation itself.
func (s *backupService) logOp(ctx context.Context, op, targetType, targetID string, adminID uuid.UUID, details any, affected int, status string, opErr error) {
	entry := &models.SystemLogEntry{
		Operation:       op,
		TargetType:      targetType,
		TargetID:        targetID,
		PerformedBy:     adminID,
		AffectedRecords: affected,
		Status:          status,
	}
	if opErr != nil {
		// Persisted log rows are admin-visible; strip credentials the
		// driver or provider may have echoed into the message.
		entry.ErrorMessage = logging.SanitizeError(opErr)
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = raw
		}
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write system log entry",
			zap.String("operation", op),
			zap.Error(err))
	}
}
