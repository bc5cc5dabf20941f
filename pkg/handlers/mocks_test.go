package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/mspcompass/compass-engine/pkg/llm"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/services"
)

type mockProfileService struct {
	CreateProfileFunc             func(ctx context.Context, userID uuid.UUID, name, description string, copyFrom *uuid.UUID) (*models.Profile, error)
	ListProfilesFunc              func(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.ProfileSummary, error)
	ActivateProfileFunc           func(ctx context.Context, userID, profileID uuid.UUID) error
	DeleteProfileFunc             func(ctx context.Context, userID, profileID uuid.UUID) error
	GetOrMigrateActiveProfileFunc func(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	SaveAssessmentItemFunc        func(ctx context.Context, userID, profileID uuid.UUID, section string, item *models.AssessmentItem) error
	GetAssessmentDataFunc         func(ctx context.Context, userID, profileID uuid.UUID, section string) ([]models.AssessmentItem, error)
	DeleteAssessmentDataFunc      func(ctx context.Context, userID, profileID uuid.UUID, section string) error
}

var _ services.ProfileService = (*mockProfileService)(nil)

func (m *mockProfileService) CreateProfile(ctx context.Context, userID uuid.UUID, name, description string, copyFrom *uuid.UUID) (*models.Profile, error) {
	if m.CreateProfileFunc != nil {
		return m.CreateProfileFunc(ctx, userID, name, description, copyFrom)
	}
	return &models.Profile{ID: uuid.New(), UserID: userID, Name: name}, nil
}

func (m *mockProfileService) ListProfiles(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.ProfileSummary, error) {
	if m.ListProfilesFunc != nil {
		return m.ListProfilesFunc(ctx, userID, includeInactive)
	}
	return nil, nil
}

func (m *mockProfileService) ActivateProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	if m.ActivateProfileFunc != nil {
		return m.ActivateProfileFunc(ctx, userID, profileID)
	}
	return nil
}

func (m *mockProfileService) DeleteProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	if m.DeleteProfileFunc != nil {
		return m.DeleteProfileFunc(ctx, userID, profileID)
	}
	return nil
}

func (m *mockProfileService) GetOrMigrateActiveProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if m.GetOrMigrateActiveProfileFunc != nil {
		return m.GetOrMigrateActiveProfileFunc(ctx, userID)
	}
	return &models.Profile{ID: uuid.New(), UserID: userID, IsActive: true}, nil
}

func (m *mockProfileService) SaveAssessmentItem(ctx context.Context, userID, profileID uuid.UUID, section string, item *models.AssessmentItem) error {
	if m.SaveAssessmentItemFunc != nil {
		return m.SaveAssessmentItemFunc(ctx, userID, profileID, section, item)
	}
	return nil
}

func (m *mockProfileService) GetAssessmentData(ctx context.Context, userID, profileID uuid.UUID, section string) ([]models.AssessmentItem, error) {
	if m.GetAssessmentDataFunc != nil {
		return m.GetAssessmentDataFunc(ctx, userID, profileID, section)
	}
	return nil, nil
}

func (m *mockProfileService) DeleteAssessmentData(ctx context.Context, userID, profileID uuid.UUID, section string) error {
	if m.DeleteAssessmentDataFunc != nil {
		return m.DeleteAssessmentDataFunc(ctx, userID, profileID, section)
	}
	return nil
}

type mockUserService struct {
	RegisterFunc       func(ctx context.Context, email, password, name, organization, phone string) (*models.User, error)
	LoginFunc          func(ctx context.Context, email, password string) (string, *models.User, error)
	GetUserFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsersFunc      func(ctx context.Context) ([]models.User, error)
	UpdateUserFunc     func(ctx context.Context, id uuid.UUID, name, organization, phone string) (*models.User, error)
	ChangeRoleFunc     func(ctx context.Context, id uuid.UUID, role string) error
	SetStatusFunc      func(ctx context.Context, id uuid.UUID, status string) error
	ChangePasswordFunc func(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
}

var _ services.UserService = (*mockUserService)(nil)

func (m *mockUserService) Register(ctx context.Context, email, password, name, organization, phone string) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, name, organization, phone)
	}
	return &models.User{ID: uuid.New(), Email: email, Name: name}, nil
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "token", &models.User{Email: email}, nil
}

func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return &models.User{ID: id}, nil
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserService) UpdateUser(ctx context.Context, id uuid.UUID, name, organization, phone string) (*models.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, name, organization, phone)
	}
	return &models.User{ID: id, Name: name}, nil
}

func (m *mockUserService) ChangeRole(ctx context.Context, id uuid.UUID, role string) error {
	if m.ChangeRoleFunc != nil {
		return m.ChangeRoleFunc(ctx, id, role)
	}
	return nil
}

func (m *mockUserService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockUserService) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, id, currentPassword, newPassword)
	}
	return nil
}

type mockQAService struct {
	AskQuestionFunc    func(ctx context.Context, userID uuid.UUID, itemID, question string) (*models.QAEntry, error)
	ListQuestionsFunc  func(ctx context.Context, itemID string) ([]models.QAEntry, error)
	AnswerQuestionFunc func(ctx context.Context, answeredBy, questionID uuid.UUID, answer string) error
}

var _ services.QAService = (*mockQAService)(nil)

func (m *mockQAService) AskQuestion(ctx context.Context, userID uuid.UUID, itemID, question string) (*models.QAEntry, error) {
	if m.AskQuestionFunc != nil {
		return m.AskQuestionFunc(ctx, userID, itemID, question)
	}
	return &models.QAEntry{ID: uuid.New(), ItemID: itemID, UserID: userID, Question: question}, nil
}

func (m *mockQAService) ListQuestions(ctx context.Context, itemID string) ([]models.QAEntry, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx, itemID)
	}
	return nil, nil
}

func (m *mockQAService) AnswerQuestion(ctx context.Context, answeredBy, questionID uuid.UUID, answer string) error {
	if m.AnswerQuestionFunc != nil {
		return m.AnswerQuestionFunc(ctx, answeredBy, questionID, answer)
	}
	return nil
}

type mockBackupService struct {
	CreateFullBackupFunc      func(ctx context.Context, adminID uuid.UUID) (*models.BackupRecord, error)
	CreateSelectiveBackupFunc func(ctx context.Context, adminID uuid.UUID, criteria *models.SelectionCriteria) (*models.BackupRecord, error)
	ListBackupsFunc           func(ctx context.Context, limit int) ([]models.BackupRecord, error)
	RestoreFromBackupFunc     func(ctx context.Context, adminID, backupID uuid.UUID) (*services.RestoreResult, error)
	ResetSystemFunc           func(ctx context.Context, adminID uuid.UUID, createBackup bool) (*services.ResetResult, error)
	DeleteSelectiveFunc       func(ctx context.Context, adminID uuid.UUID, criteria *models.SelectionCriteria, createBackup bool) (*services.DeleteResult, error)
	ListLogsFunc              func(ctx context.Context, limit int) ([]models.SystemLogEntry, error)
	ListArchiveFunc           func(ctx context.Context, tableName string, limit int) ([]models.ArchiveEntry, error)
	PurgeExpiredArchivesFunc  func(ctx context.Context) (int64, error)
}

var _ services.BackupService = (*mockBackupService)(nil)

func (m *mockBackupService) CreateFullBackup(ctx context.Context, adminID uuid.UUID) (*models.BackupRecord, error) {
	if m.CreateFullBackupFunc != nil {
		return m.CreateFullBackupFunc(ctx, adminID)
	}
	return &models.BackupRecord{ID: uuid.New(), Type: models.BackupTypeFull}, nil
}

func (m *mockBackupService) CreateSelectiveBackup(ctx context.Context, adminID uuid.UUID, criteria *models.SelectionCriteria) (*models.BackupRecord, error) {
	if m.CreateSelectiveBackupFunc != nil {
		return m.CreateSelectiveBackupFunc(ctx, adminID, criteria)
	}
	return &models.BackupRecord{ID: uuid.New(), Type: models.BackupTypeSelective}, nil
}

func (m *mockBackupService) ListBackups(ctx context.Context, limit int) ([]models.BackupRecord, error) {
	if m.ListBackupsFunc != nil {
		return m.ListBackupsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockBackupService) RestoreFromBackup(ctx context.Context, adminID, backupID uuid.UUID) (*services.RestoreResult, error) {
	if m.RestoreFromBackupFunc != nil {
		return m.RestoreFromBackupFunc(ctx, adminID, backupID)
	}
	return &services.RestoreResult{BackupID: backupID}, nil
}

func (m *mockBackupService) ResetSystem(ctx context.Context, adminID uuid.UUID, createBackup bool) (*services.ResetResult, error) {
	if m.ResetSystemFunc != nil {
		return m.ResetSystemFunc(ctx, adminID, createBackup)
	}
	return &services.ResetResult{}, nil
}

func (m *mockBackupService) DeleteSelective(ctx context.Context, adminID uuid.UUID, criteria *models.SelectionCriteria, createBackup bool) (*services.DeleteResult, error) {
	if m.DeleteSelectiveFunc != nil {
		return m.DeleteSelectiveFunc(ctx, adminID, criteria, createBackup)
	}
	return &services.DeleteResult{}, nil
}

func (m *mockBackupService) ListLogs(ctx context.Context, limit int) ([]models.SystemLogEntry, error) {
	if m.ListLogsFunc != nil {
		return m.ListLogsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockBackupService) ListArchive(ctx context.Context, tableName string, limit int) ([]models.ArchiveEntry, error) {
	if m.ListArchiveFunc != nil {
		return m.ListArchiveFunc(ctx, tableName, limit)
	}
	return nil, nil
}

func (m *mockBackupService) PurgeExpiredArchives(ctx context.Context) (int64, error) {
	if m.PurgeExpiredArchivesFunc != nil {
		return m.PurgeExpiredArchivesFunc(ctx)
	}
	return 0, nil
}

type mockCacheService struct {
	GenerateVersionIDFunc func(cacheType models.CacheType, sourceVersion, language, provider string) string
	SaveEntryFunc         func(ctx context.Context, cacheType models.CacheType, entry *models.CacheEntry) error
	ListVersionsFunc      func(ctx context.Context, cacheType models.CacheType) ([]models.CacheVersionInfo, error)
	GetVersionFunc        func(ctx context.Context, cacheType models.CacheType, version, language string) ([]models.CacheEntry, error)
	ActiveVersionFunc     func(ctx context.Context, cacheType models.CacheType, language string) (*models.ActiveCacheVersion, error)
	SetActiveVersionFunc  func(ctx context.Context, cacheType models.CacheType, version, language string) error
	DeleteVersionFunc     func(ctx context.Context, cacheType models.CacheType, version string) (int64, error)
	GetActiveEntryFunc    func(ctx context.Context, cacheType models.CacheType, itemID, language string) (*models.CacheEntry, error)
	GenerateBatchFunc     func(ctx context.Context, cacheType models.CacheType, version string, languages []string, gen llm.TextGenerator) (*services.BatchResult, error)
}

var _ services.CacheVersionService = (*mockCacheService)(nil)

func (m *mockCacheService) GenerateVersionID(cacheType models.CacheType, sourceVersion, language, provider string) string {
	if m.GenerateVersionIDFunc != nil {
		return m.GenerateVersionIDFunc(cacheType, sourceVersion, language, provider)
	}
	return string(cacheType) + "-test-version"
}

func (m *mockCacheService) SaveEntry(ctx context.Context, cacheType models.CacheType, entry *models.CacheEntry) error {
	if m.SaveEntryFunc != nil {
		return m.SaveEntryFunc(ctx, cacheType, entry)
	}
	return nil
}

func (m *mockCacheService) ListVersions(ctx context.Context, cacheType models.CacheType) ([]models.CacheVersionInfo, error) {
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, cacheType)
	}
	return nil, nil
}

func (m *mockCacheService) GetVersion(ctx context.Context, cacheType models.CacheType, version, language string) ([]models.CacheEntry, error) {
	if m.GetVersionFunc != nil {
		return m.GetVersionFunc(ctx, cacheType, version, language)
	}
	return nil, nil
}

func (m *mockCacheService) ActiveVersion(ctx context.Context, cacheType models.CacheType, language string) (*models.ActiveCacheVersion, error) {
	if m.ActiveVersionFunc != nil {
		return m.ActiveVersionFunc(ctx, cacheType, language)
	}
	return nil, nil
}

func (m *mockCacheService) SetActiveVersion(ctx context.Context, cacheType models.CacheType, version, language string) error {
	if m.SetActiveVersionFunc != nil {
		return m.SetActiveVersionFunc(ctx, cacheType, version, language)
	}
	return nil
}

func (m *mockCacheService) DeleteVersion(ctx context.Context, cacheType models.CacheType, version string) (int64, error) {
	if m.DeleteVersionFunc != nil {
		return m.DeleteVersionFunc(ctx, cacheType, version)
	}
	return 0, nil
}

func (m *mockCacheService) GetActiveEntry(ctx context.Context, cacheType models.CacheType, itemID, language string) (*models.CacheEntry, error) {
	if m.GetActiveEntryFunc != nil {
		return m.GetActiveEntryFunc(ctx, cacheType, itemID, language)
	}
	return nil, nil
}

func (m *mockCacheService) GenerateBatch(ctx context.Context, cacheType models.CacheType, version string, languages []string, gen llm.TextGenerator) (*services.BatchResult, error) {
	if m.GenerateBatchFunc != nil {
		return m.GenerateBatchFunc(ctx, cacheType, version, languages, gen)
	}
	return &services.BatchResult{Version: version}, nil
}
