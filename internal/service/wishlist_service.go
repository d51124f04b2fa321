package service

import (
	"errors"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"gorm.io/gorm"
)

type WishlistService struct {
	wishlistRepo *repository.WishlistRepository
	storyRepo    *repository.StoryRepository
}

func NewWishlistService(wishlistRepo *repository.WishlistRepository, storyRepo *repository.StoryRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		storyRepo:    storyRepo,
	}
}

func (s *WishlistService) Add(userID, storyID uint) error {
	if _, err := s.storyRepo.GetByID(storyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	exists, err := s.wishlistRepo.Exists(userID, storyID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyWishlisted
	}

	return s.wishlistRepo.Create(&models.WishlistItem{
		UserID:  userID,
		StoryID: storyID,
	})
}

func (s *WishlistService) List(userID uint) ([]models.WishlistEntry, error) {
	return s.wishlistRepo.ListByUser(userID)
}

func (s *WishlistService) Remove(userID, storyID uint) error {
	err := s.wishlistRepo.Delete(userID, storyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
