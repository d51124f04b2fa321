package service

import (
	"errors"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"gorm.io/gorm"
)

const reviewListLimit = 100

type ReviewService struct {
	reviewRepo  *repository.ReviewRepository
	storyRepo   *repository.StoryRepository
	libraryRepo *repository.LibraryRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, storyRepo *repository.StoryRepository, libraryRepo *repository.LibraryRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		storyRepo:   storyRepo,
		libraryRepo: libraryRepo,
	}
}

// Submit creates or replaces the caller's review. Only owners can review,
// and each user gets one review per story.
func (s *ReviewService) Submit(userID uint, req models.CreateReviewRequest) (*models.Review, error) {
	if _, err := s.storyRepo.GetByID(req.StoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	owned, err := s.libraryRepo.Owns(userID, req.StoryID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotOwned
	}

	review, err := s.reviewRepo.GetByUserAndStory(userID, req.StoryID)
	switch {
	case err == nil:
		review.Rating = req.Rating
		review.Title = req.Title
		review.Content = req.Content
		if err := s.reviewRepo.Update(review); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = &models.Review{
			UserID:  userID,
			StoryID: req.StoryID,
			Rating:  req.Rating,
			Title:   req.Title,
			Content: req.Content,
		}
		if err := s.reviewRepo.Create(review); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.storyRepo.UpdateAverageRating(req.StoryID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListForStory(storyID uint) (*models.ReviewListResponse, error) {
	if _, err := s.storyRepo.GetByID(storyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByStory(storyID, reviewListLimit)
	if err != nil {
		return nil, err
	}
	avg, total, err := s.reviewRepo.AverageForStory(storyID)
	if err != nil {
		return nil, err
	}

	return &models.ReviewListResponse{
		Reviews:       reviews,
		AverageRating: avg,
		TotalReviews:  int(total),
	}, nil
}

// Delete removes the caller's own review and refreshes the aggregate.
func (s *ReviewService) Delete(userID, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrNotOwned
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}
	return s.storyRepo.UpdateAverageRating(review.StoryID)
}
