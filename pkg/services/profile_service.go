package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/apperrors"
	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/repositories"
)

// ProfileService manages named assessment profiles and their items.
// A user has at most one active profile; activation is atomic.
type ProfileService interface {
	// CreateProfile creates a profile, optionally copying all items from
	// another of the user's profiles. Without a copy source the profile is
	// seeded from the static checklist with every item unanswered.
	CreateProfile(ctx context.Context, userID uuid.UUID, name, description string, copyFrom *uuid.UUID) (*models.Profile, error)

	// ListProfiles returns the user's profiles with progress summaries.
	ListProfiles(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.ProfileSummary, error)

	// ActivateProfile makes the target profile active and deactivates any
	// other active profile of the same user, atomically.
	ActivateProfile(ctx context.Context, userID, profileID uuid.UUID) error

	// DeleteProfile removes a profile and its items. Deleting the active
	// profile while other profiles exist is refused; the caller must
	// activate a replacement first.
	DeleteProfile(ctx context.Context, userID, profileID uuid.UUID) error

	// GetOrMigrateActiveProfile returns the user's active profile,
	// creating a default one from any legacy (pre-versioning) assessment
	// rows when none exists.
	GetOrMigrateActiveProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)

	SaveAssessmentItem(ctx context.Context, userID, profileID uuid.UUID, section string, item *models.AssessmentItem) error
	GetAssessmentData(ctx context.Context, userID, profileID uuid.UUID, section string) ([]models.AssessmentItem, error)
	DeleteAssessmentData(ctx context.Context, userID, profileID uuid.UUID, section string) error
}

type profileService struct {
	db          database.TxRunner
	profiles    repositories.ProfileRepository
	assessments repositories.AssessmentRepository
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	db database.TxRunner,
	profiles repositories.ProfileRepository,
	assessments repositories.AssessmentRepository,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		db:          db,
		profiles:    profiles,
		assessments: assessments,
		logger:      logger.Named("profile-service"),
	}
}

var _ ProfileService = (*profileService)(nil)

func (s *profileService) CreateProfile(ctx context.Context, userID uuid.UUID, name, description string, copyFrom *uuid.UUID) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("profile name is required: %w", apperrors.ErrValidation)
	}

	profile := &models.Profile{
		UserID:      userID,
		Name:        name,
		Description: description,
	}

	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		count, err := s.profiles.CountForUser(ctx, userID)
		if err != nil {
			return err
		}
		// The user's first profile becomes active immediately.
		profile.IsActive = count == 0

		if err := s.profiles.Create(ctx, profile); err != nil {
			return err
		}

		if copyFrom != nil {
			// The copy source must belong to the same user.
			if _, err := s.profiles.Get(ctx, userID, *copyFrom); err != nil {
				return err
			}
			copied, err := s.assessments.CopyItems(ctx, *copyFrom, profile.ID)
			if err != nil {
				return err
			}
			s.logger.Info("Copied assessment items into new profile",
				zap.String("profile_id", profile.ID.String()),
				zap.String("source_profile_id", copyFrom.String()),
				zap.Int64("items", copied))
			return nil
		}

		return s.seedChecklist(ctx, userID, profile.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created profile",
		zap.String("user_id", userID.String()),
		zap.String("profile_id", profile.ID.String()),
		zap.String("name", name))
	return profile, nil
}

// seedChecklist creates one unanswered item per checklist definition.
func (s *profileService) seedChecklist(ctx context.Context, userID, profileID uuid.UUID) error {
	for _, def := range models.Checklist {
		item := &models.AssessmentItem{
			ProfileID:        profileID,
			UserID:           userID,
			Section:          def.Section,
			ItemID:           def.ItemID,
			Category:         def.Category,
			Title:            def.Title,
			Description:      def.Description,
			Mandatory:        def.Mandatory,
			EvidenceRequired: def.EvidenceRequired,
		}
		if err := s.assessments.Upsert(ctx, item); err != nil {
			return fmt.Errorf("failed to seed item %s: %w", def.ItemID, err)
		}
	}
	return nil
}

func (s *profileService) ListProfiles(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.ProfileSummary, error) {
	return s.profiles.List(ctx, userID, includeInactive)
}

func (s *profileService) ActivateProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		return s.profiles.Activate(ctx, userID, profileID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Activated profile",
		zap.String("user_id", userID.String()),
		zap.String("profile_id", profileID.String()))
	return nil
}

func (s *profileService) DeleteProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	profile, err := s.profiles.Get(ctx, userID, profileID)
	if err != nil {
		return err
	}

	if profile.IsActive {
		count, err := s.profiles.CountForUser(ctx, userID)
		if err != nil {
			return err
		}
		if count > 1 {
			return fmt.Errorf("activate another profile first: %w", apperrors.ErrActiveProfile)
		}
	}

	// Items cascade with the profile row.
	if err := s.profiles.Delete(ctx, userID, profileID); err != nil {
		return err
	}

	s.logger.Info("Deleted profile",
		zap.String("user_id", userID.String()),
		zap.String("profile_id", profileID.String()))
	return nil
}

func (s *profileService) GetOrMigrateActiveProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetActive(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Legacy path: the user predates profile versioning. Create a default
	// profile and move any unowned assessment rows under it.
	migrated := &models.Profile{
		UserID:   userID,
		Name:     models.DefaultProfileName,
		IsActive: true,
	}
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		if err := s.profiles.Create(ctx, migrated); err != nil {
			return err
		}
		adopted, err := s.assessments.AdoptLegacy(ctx, userID, migrated.ID)
		if err != nil {
			return err
		}
		if adopted > 0 {
			s.logger.Info("Migrated legacy assessment rows",
				zap.String("user_id", userID.String()),
				zap.String("profile_id", migrated.ID.String()),
				zap.Int64("rows", adopted))
			return nil
		}
		return s.seedChecklist(ctx, userID, migrated.ID)
	})
	if err != nil {
		return nil, err
	}
	return migrated, nil
}

func (s *profileService) SaveAssessmentItem(ctx context.Context, userID, profileID uuid.UUID, section string, item *models.AssessmentItem) error {
	if !models.IsValidSection(section) {
		return fmt.Errorf("invalid section %q: %w", section, apperrors.ErrValidation)
	}
	if item.ItemID == "" {
		return fmt.Errorf("item id is required: %w", apperrors.ErrValidation)
	}
	if _, err := s.profiles.Get(ctx, userID, profileID); err != nil {
		return err
	}

	item.ProfileID = profileID
	item.UserID = userID
	item.Section = section

	// Definition fields always follow the static checklist.
	if def, ok := models.ChecklistItem(item.ItemID); ok {
		item.Category = def.Category
		item.Title = def.Title
		item.Description = def.Description
		item.Mandatory = def.Mandatory
		item.EvidenceRequired = def.EvidenceRequired
	}

	return s.assessments.Upsert(ctx, item)
}

func (s *profileService) GetAssessmentData(ctx context.Context, userID, profileID uuid.UUID, section string) ([]models.AssessmentItem, error) {
	if !models.IsValidSection(section) {
		return nil, fmt.Errorf("invalid section %q: %w", section, apperrors.ErrValidation)
	}
	if _, err := s.profiles.Get(ctx, userID, profileID); err != nil {
		return nil, err
	}
	return s.assessments.GetBySection(ctx, profileID, section)
}

func (s *profileService) DeleteAssessmentData(ctx context.Context, userID, profileID uuid.UUID, section string) error {
	if !models.IsValidSection(section) {
		return fmt.Errorf("invalid section %q: %w", section, apperrors.ErrValidation)
	}
	if _, err := s.profiles.Get(ctx, userID, profileID); err != nil {
		return err
	}
	deleted, err := s.assessments.DeleteBySection(ctx, profileID, section)
	if err != nil {
		return err
	}
	s.logger.Info("Deleted assessment section",
		zap.String("profile_id", profileID.String()),
		zap.String("section", section),
		zap.Int64("rows", deleted))
	return nil
}
