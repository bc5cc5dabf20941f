package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mspcompass/compass-engine/pkg/models"
)

// passthroughTx runs transaction bodies directly, without a database.
type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockUserRepo struct {
	CreateFunc              func(ctx context.Context, user *models.User) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc          func(ctx context.Context, email string) (*models.User, error)
	ListFunc                func(ctx context.Context) ([]models.User, error)
	ListByIDsFunc           func(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	UpdateFunc              func(ctx context.Context, user *models.User) error
	SetStatusFunc           func(ctx context.Context, id uuid.UUID, status string) error
	CountByRoleFunc         func(ctx context.Context, role string) (int, error)
	DeleteAllExceptRoleFunc func(ctx context.Context, keepRole string) ([]models.User, error)
	DeleteByIDsFunc         func(ctx context.Context, ids []uuid.UUID, keepRole string) ([]models.User, error)
	InsertOrReplaceFunc     func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &models.User{ID: id}, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return &models.User{Email: email}, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if m.ListByIDsFunc != nil {
		return m.ListByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx, role)
	}
	return 0, nil
}

func (m *mockUserRepo) DeleteAllExceptRole(ctx context.Context, keepRole string) ([]models.User, error) {
	if m.DeleteAllExceptRoleFunc != nil {
		return m.DeleteAllExceptRoleFunc(ctx, keepRole)
	}
	return nil, nil
}

func (m *mockUserRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID, keepRole string) ([]models.User, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, ids, keepRole)
	}
	return nil, nil
}

func (m *mockUserRepo) InsertOrReplace(ctx context.Context, user *models.User) error {
	if m.InsertOrReplaceFunc != nil {
		return m.InsertOrReplaceFunc(ctx, user)
	}
	return nil
}

type mockProfileRepo struct {
	CreateFunc          func(ctx context.Context, profile *models.Profile) error
	GetFunc             func(ctx context.Context, userID, profileID uuid.UUID) (*models.Profile, error)
	GetActiveFunc       func(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	ListFunc            func(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.ProfileSummary, error)
	ListAllFunc         func(ctx context.Context) ([]models.Profile, error)
	ActivateFunc        func(ctx context.Context, userID, profileID uuid.UUID) error
	DeleteFunc          func(ctx context.Context, userID, profileID uuid.UUID) error
	DeleteAllFunc       func(ctx context.Context) (int, error)
	CountForUserFunc    func(ctx context.Context, userID uuid.UUID) (int, error)
	InsertOrReplaceFunc func(ctx context.Context, profile *models.Profile) error
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, profile)
	}
	profile.ID = uuid.New()
	return nil
}

func (m *mockProfileRepo) Get(ctx context.Context, userID, profileID uuid.UUID) (*models.Profile, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, profileID)
	}
	return &models.Profile{ID: profileID, UserID: userID}, nil
}

func (m *mockProfileRepo) GetActive(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, userID)
	}
	return &models.Profile{UserID: userID, IsActive: true}, nil
}

func (m *mockProfileRepo) List(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.ProfileSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, includeInactive)
	}
	return nil, nil
}

func (m *mockProfileRepo) ListAll(ctx context.Context) ([]models.Profile, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockProfileRepo) Activate(ctx context.Context, userID, profileID uuid.UUID) error {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, userID, profileID)
	}
	return nil
}

func (m *mockProfileRepo) Delete(ctx context.Context, userID, profileID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, profileID)
	}
	return nil
}

func (m *mockProfileRepo) DeleteAll(ctx context.Context) (int, error) {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return 0, nil
}

func (m *mockProfileRepo) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountForUserFunc != nil {
		return m.CountForUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockProfileRepo) InsertOrReplace(ctx context.Context, profile *models.Profile) error {
	if m.InsertOrReplaceFunc != nil {
		return m.InsertOrReplaceFunc(ctx, profile)
	}
	return nil
}

type mockAssessmentRepo struct {
	UpsertFunc          func(ctx context.Context, item *models.AssessmentItem) error
	GetBySectionFunc    func(ctx context.Context, profileID uuid.UUID, section string) ([]models.AssessmentItem, error)
	DeleteBySectionFunc func(ctx context.Context, profileID uuid.UUID, section string) (int64, error)
	CopyItemsFunc       func(ctx context.Context, fromProfileID, toProfileID uuid.UUID) (int64, error)
	CountLegacyFunc     func(ctx context.Context, userID uuid.UUID) (int, error)
	AdoptLegacyFunc     func(ctx context.Context, userID, profileID uuid.UUID) (int64, error)
	ListAllFunc         func(ctx context.Context) ([]models.AssessmentItem, error)
	ListFilteredFunc    func(ctx context.Context, criteria *models.SelectionCriteria) ([]models.AssessmentItem, error)
	DeleteAllFunc       func(ctx context.Context) ([]models.AssessmentItem, error)
	DeleteFilteredFunc  func(ctx context.Context, criteria *models.SelectionCriteria) ([]models.AssessmentItem, error)
	InsertOrReplaceFunc func(ctx context.Context, item *models.AssessmentItem) error
}

func (m *mockAssessmentRepo) Upsert(ctx context.Context, item *models.AssessmentItem) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, item)
	}
	return nil
}

func (m *mockAssessmentRepo) GetBySection(ctx context.Context, profileID uuid.UUID, section string) ([]models.AssessmentItem, error) {
	if m.GetBySectionFunc != nil {
		return m.GetBySectionFunc(ctx, profileID, section)
	}
	return nil, nil
}

func (m *mockAssessmentRepo) DeleteBySection(ctx context.Context, profileID uuid.UUID, section string) (int64, error) {
	if m.DeleteBySectionFunc != nil {
		return m.DeleteBySectionFunc(ctx, profileID, section)
	}
	return 0, nil
}

func (m *mockAssessmentRepo) CopyItems(ctx context.Context, fromProfileID, toProfileID uuid.UUID) (int64, error) {
	if m.CopyItemsFunc != nil {
		return m.CopyItemsFunc(ctx, fromProfileID, toProfileID)
	}
	return 0, nil
}

func (m *mockAssessmentRepo) CountLegacy(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountLegacyFunc != nil {
		return m.CountLegacyFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockAssessmentRepo) AdoptLegacy(ctx context.Context, userID, profileID uuid.UUID) (int64, error) {
	if m.AdoptLegacyFunc != nil {
		return m.AdoptLegacyFunc(ctx, userID, profileID)
	}
	return 0, nil
}

func (m *mockAssessmentRepo) ListAll(ctx context.Context) ([]models.AssessmentItem, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockAssessmentRepo) ListFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.AssessmentItem, error) {
	if m.ListFilteredFunc != nil {
		return m.ListFilteredFunc(ctx, criteria)
	}
	return nil, nil
}

func (m *mockAssessmentRepo) DeleteAll(ctx context.Context) ([]models.AssessmentItem, error) {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockAssessmentRepo) DeleteFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.AssessmentItem, error) {
	if m.DeleteFilteredFunc != nil {
		return m.DeleteFilteredFunc(ctx, criteria)
	}
	return nil, nil
}

func (m *mockAssessmentRepo) InsertOrReplace(ctx context.Context, item *models.AssessmentItem) error {
	if m.InsertOrReplaceFunc != nil {
		return m.InsertOrReplaceFunc(ctx, item)
	}
	return nil
}

type mockCacheRepo struct {
	UpsertFunc             func(ctx context.Context, cacheType models.CacheType, entry *models.CacheEntry) error
	GetByVersionFunc       func(ctx context.Context, cacheType models.CacheType, version, language string) ([]models.CacheEntry, error)
	GetEntryFunc           func(ctx context.Context, cacheType models.CacheType, version, itemID, language string) (*models.CacheEntry, error)
	ListVersionsFunc       func(ctx context.Context, cacheType models.CacheType) ([]models.CacheVersionInfo, error)
	DeleteVersionFunc      func(ctx context.Context, cacheType models.CacheType, version string) (int64, error)
	GetActiveVersionFunc   func(ctx context.Context, cacheType models.CacheType, language string) (*models.ActiveCacheVersion, error)
	SetActiveVersionFunc   func(ctx context.Context, cacheType models.CacheType, version, language string) error
	ClearActiveVersionFunc func(ctx context.Context, cacheType models.CacheType, version string) error
	ListAllFunc            func(ctx context.Context, cacheType models.CacheType) ([]models.CacheEntry, error)
	DeleteAllFunc          func(ctx context.Context, cacheType models.CacheType) (int64, error)
}

func (m *mockCacheRepo) Upsert(ctx context.Context, cacheType models.CacheType, entry *models.CacheEntry) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, cacheType, entry)
	}
	return nil
}

func (m *mockCacheRepo) GetByVersion(ctx context.Context, cacheType models.CacheType, version, language string) ([]models.CacheEntry, error) {
	if m.GetByVersionFunc != nil {
		return m.GetByVersionFunc(ctx, cacheType, version, language)
	}
	return nil, nil
}

func (m *mockCacheRepo) GetEntry(ctx context.Context, cacheType models.CacheType, version, itemID, language string) (*models.CacheEntry, error) {
	if m.GetEntryFunc != nil {
		return m.GetEntryFunc(ctx, cacheType, version, itemID, language)
	}
	return nil, nil
}

func (m *mockCacheRepo) ListVersions(ctx context.Context, cacheType models.CacheType) ([]models.CacheVersionInfo, error) {
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, cacheType)
	}
	return nil, nil
}

func (m *mockCacheRepo) DeleteVersion(ctx context.Context, cacheType models.CacheType, version string) (int64, error) {
	if m.DeleteVersionFunc != nil {
		return m.DeleteVersionFunc(ctx, cacheType, version)
	}
	return 0, nil
}

func (m *mockCacheRepo) GetActiveVersion(ctx context.Context, cacheType models.CacheType, language string) (*models.ActiveCacheVersion, error) {
	if m.GetActiveVersionFunc != nil {
		return m.GetActiveVersionFunc(ctx, cacheType, language)
	}
	return nil, nil
}

func (m *mockCacheRepo) SetActiveVersion(ctx context.Context, cacheType models.CacheType, version, language string) error {
	if m.SetActiveVersionFunc != nil {
		return m.SetActiveVersionFunc(ctx, cacheType, version, language)
	}
	return nil
}

func (m *mockCacheRepo) ClearActiveVersion(ctx context.Context, cacheType models.CacheType, version string) error {
	if m.ClearActiveVersionFunc != nil {
		return m.ClearActiveVersionFunc(ctx, cacheType, version)
	}
	return nil
}

func (m *mockCacheRepo) ListAll(ctx context.Context, cacheType models.CacheType) ([]models.CacheEntry, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, cacheType)
	}
	return nil, nil
}

func (m *mockCacheRepo) DeleteAll(ctx context.Context, cacheType models.CacheType) (int64, error) {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx, cacheType)
	}
	return 0, nil
}

type mockQARepo struct {
	CreateFunc          func(ctx context.Context, entry *models.QAEntry) error
	ListByItemFunc      func(ctx context.Context, itemID string) ([]models.QAEntry, error)
	AnswerFunc          func(ctx context.Context, id uuid.UUID, answer string, answeredBy uuid.UUID) error
	ListAllFunc         func(ctx context.Context) ([]models.QAEntry, error)
	ListFilteredFunc    func(ctx context.Context, criteria *models.SelectionCriteria) ([]models.QAEntry, error)
	DeleteAllFunc       func(ctx context.Context) ([]models.QAEntry, error)
	DeleteFilteredFunc  func(ctx context.Context, criteria *models.SelectionCriteria) ([]models.QAEntry, error)
	InsertOrReplaceFunc func(ctx context.Context, entry *models.QAEntry) error
}

func (m *mockQARepo) Create(ctx context.Context, entry *models.QAEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	entry.ID = uuid.New()
	return nil
}

func (m *mockQARepo) ListByItem(ctx context.Context, itemID string) ([]models.QAEntry, error) {
	if m.ListByItemFunc != nil {
		return m.ListByItemFunc(ctx, itemID)
	}
	return nil, nil
}

func (m *mockQARepo) Answer(ctx context.Context, id uuid.UUID, answer string, answeredBy uuid.UUID) error {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, id, answer, answeredBy)
	}
	return nil
}

func (m *mockQARepo) ListAll(ctx context.Context) ([]models.QAEntry, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockQARepo) ListFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.QAEntry, error) {
	if m.ListFilteredFunc != nil {
		return m.ListFilteredFunc(ctx, criteria)
	}
	return nil, nil
}

func (m *mockQARepo) DeleteAll(ctx context.Context) ([]models.QAEntry, error) {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockQARepo) DeleteFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.QAEntry, error) {
	if m.DeleteFilteredFunc != nil {
		return m.DeleteFilteredFunc(ctx, criteria)
	}
	return nil, nil
}

func (m *mockQARepo) InsertOrReplace(ctx context.Context, entry *models.QAEntry) error {
	if m.InsertOrReplaceFunc != nil {
		return m.InsertOrReplaceFunc(ctx, entry)
	}
	return nil
}

type mockBackupRepo struct {
	CreateFunc func(ctx context.Context, record *models.BackupRecord) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*models.BackupRecord, error)
	ListFunc   func(ctx context.Context, limit int) ([]models.BackupRecord, error)
}

func (m *mockBackupRepo) Create(ctx context.Context, record *models.BackupRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	record.ID = uuid.New()
	return nil
}

func (m *mockBackupRepo) Get(ctx context.Context, id uuid.UUID) (*models.BackupRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.BackupRecord{ID: id}, nil
}

func (m *mockBackupRepo) List(ctx context.Context, limit int) ([]models.BackupRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return nil, nil
}

type mockArchiveRepo struct {
	ArchiveRowFunc   func(ctx context.Context, tableName, rowID string, rowData any, deletedBy uuid.UUID) error
	ListFunc         func(ctx context.Context, tableName string, limit int) ([]models.ArchiveEntry, error)
	MarkRestoredFunc func(ctx context.Context, id, restoredBy uuid.UUID) error
	PurgeExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *mockArchiveRepo) ArchiveRow(ctx context.Context, tableName, rowID string, rowData any, deletedBy uuid.UUID) error {
	if m.ArchiveRowFunc != nil {
		return m.ArchiveRowFunc(ctx, tableName, rowID, rowData, deletedBy)
	}
	return nil
}

func (m *mockArchiveRepo) List(ctx context.Context, tableName string, limit int) ([]models.ArchiveEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, tableName, limit)
	}
	return nil, nil
}

func (m *mockArchiveRepo) MarkRestored(ctx context.Context, id, restoredBy uuid.UUID) error {
	if m.MarkRestoredFunc != nil {
		return m.MarkRestoredFunc(ctx, id, restoredBy)
	}
	return nil
}

func (m *mockArchiveRepo) PurgeExpired(ctx context.Context) (int64, error) {
	if m.PurgeExpiredFunc != nil {
		return m.PurgeExpiredFunc(ctx)
	}
	return 0, nil
}

type mockSystemLogRepo struct {
	CreateFunc func(ctx context.Context, entry *models.SystemLogEntry) error
	ListFunc   func(ctx context.Context, limit int) ([]models.SystemLogEntry, error)

	Entries []models.SystemLogEntry
}

func (m *mockSystemLogRepo) Create(ctx context.Context, entry *models.SystemLogEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.Entries = append(m.Entries, *entry)
	return nil
}

func (m *mockSystemLogRepo) List(ctx context.Context, limit int) ([]models.SystemLogEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return m.Entries, nil
}
