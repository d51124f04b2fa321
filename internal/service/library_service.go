package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/pkg/catalog"
	"github.com/drivetimetales/dtt-backend/pkg/email"
	"github.com/drivetimetales/dtt-backend/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LibraryService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	storyRepo   *repository.StoryRepository
	libraryRepo *repository.LibraryRepository
	catalog     *catalog.Catalog
	storage     storage.ObjectStorage
	emailSvc    *email.EmailService
	logger      *zap.Logger
}

func NewLibraryService(db *gorm.DB, userRepo *repository.UserRepository, storyRepo *repository.StoryRepository, libraryRepo *repository.LibraryRepository, cat *catalog.Catalog, store storage.ObjectStorage, emailSvc *email.EmailService, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		db:          db,
		userRepo:    userRepo,
		storyRepo:   storyRepo,
		libraryRepo: libraryRepo,
		catalog:     cat,
		storage:     store,
		emailSvc:    emailSvc,
		logger:      logger,
	}
}

// PurchaseStory spends credits and grants the entitlement in one transaction.
// The debit is a guarded UPDATE, so a concurrent purchase against the same
// balance fails cleanly instead of double-spending.
func (s *LibraryService) PurchaseStory(userID, storyID uint) (*models.PurchaseStoryResponse, error) {
	story, err := s.storyRepo.GetByID(storyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	owned, err := s.libraryRepo.Owns(userID, storyID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	unlimited := s.catalog.IsUnlimited(catalog.Plan(user.SubscriptionType))
	creditsSpent := story.Credits
	if unlimited {
		creditsSpent = 0
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if !unlimited {
			ok, err := s.userRepo.WithTx(tx).SpendCredits(userID, story.Credits)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientCreditsError{
					Required:  story.Credits,
					Available: user.Credits,
				}
			}
		}
		return s.libraryRepo.WithTx(tx).Create(&models.UserStory{
			UserID:      userID,
			StoryID:     storyID,
			PurchasedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.emailSvc.SendPurchaseReceiptEmail(user.Email, user.DisplayName, story.Title, creditsSpent); err != nil {
			s.logger.Warn("receipt email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	remaining := user.Credits
	if !unlimited {
		remaining = user.Credits - story.Credits
	}

	return &models.PurchaseStoryResponse{
		Message:          fmt.Sprintf("%q added to your library", story.Title),
		CreditsSpent:     creditsSpent,
		RemainingCredits: remaining,
	}, nil
}

func (s *LibraryService) List(userID uint) ([]models.LibraryEntry, error) {
	return s.libraryRepo.ListByUser(userID)
}

func (s *LibraryService) UpdateProgress(userID, storyID uint, req models.UpdateProgressRequest) error {
	err := s.libraryRepo.UpdateProgress(userID, storyID, req.ProgressSeconds, req.Completed)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotOwned
	}
	return err
}

// StreamURL returns the audio location for an owned story and counts the play.
func (s *LibraryService) StreamURL(userID, storyID uint) (string, error) {
	owned, err := s.libraryRepo.Owns(userID, storyID)
	if err != nil {
		return "", err
	}
	if !owned {
		return "", ErrNotOwned
	}

	story, err := s.storyRepo.GetByID(storyID)
	if err != nil {
		return "", err
	}
	if story.AudioKey == "" {
		return "", ErrAudioNotReady
	}

	if err := s.storyRepo.IncrementPlayCount(storyID); err != nil {
		s.logger.Warn("play count update failed", zap.Uint("story_id", storyID), zap.Error(err))
	}
	return s.storage.PublicURL(story.AudioKey), nil
}
