package service

import (
	"errors"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/pkg/storage"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
	"gorm.io/gorm"
)

type StoryService struct {
	storyRepo *repository.StoryRepository
	storage   storage.ObjectStorage
}

func NewStoryService(storyRepo *repository.StoryRepository, storage storage.ObjectStorage) *StoryService {
	return &StoryService{
		storyRepo: storyRepo,
		storage:   storage,
	}
}

func (s *StoryService) List(filter models.StoryFilter) ([]models.Story, error) {
	return s.storyRepo.List(filter)
}

func (s *StoryService) Get(id uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return story, nil
}

// Publish creates a catalog entry. Admin only; the audio must already be in
// object storage (direct upload or presigned PUT).
func (s *StoryService) Publish(req models.PublishStoryRequest) (*models.Story, error) {
	story := &models.Story{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		DurationMins:  req.DurationMins,
		DurationLabel: utils.DurationLabel(req.DurationMins),
		Credits:       req.Credits,
		AudioKey:      req.AudioKey,
		SampleKey:     req.SampleKey,
		IsFeatured:    req.IsFeatured,
		IsNew:         req.IsNew,
	}
	if err := s.storyRepo.Create(story); err != nil {
		return nil, err
	}
	return story, nil
}

// SampleURL is public: anyone can preview a story before buying.
func (s *StoryService) SampleURL(id uint) (string, error) {
	story, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if story.SampleKey == "" {
		return "", ErrAudioNotReady
	}
	return s.storage.PublicURL(story.SampleKey), nil
}
