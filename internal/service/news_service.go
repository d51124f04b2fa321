package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/pkg/news"
	"github.com/drivetimetales/dtt-backend/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Timezones the delivery scheduler fans out to. One briefing per edition per
// zone per day.
var deliveryTimezones = []string{
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
}

type NewsService struct {
	newsRepo *repository.NewsRepository
	fetcher  *news.Fetcher
	storage  storage.ObjectStorage
	logger   *zap.Logger
	// apiKey is the deployment-level ElevenLabs key; the settings row can
	// override it.
	apiKey string
}

func NewNewsService(newsRepo *repository.NewsRepository, fetcher *news.Fetcher, store storage.ObjectStorage, logger *zap.Logger, apiKey string) *NewsService {
	return &NewsService{
		newsRepo: newsRepo,
		fetcher:  fetcher,
		storage:  store,
		logger:   logger,
		apiKey:   apiKey,
	}
}

// Generate runs the full briefing pipeline for one edition: fetch headlines,
// build the anchor script, synthesize audio, upload, publish. Without an
// ElevenLabs key the episode is published script-only.
func (s *NewsService) Generate(ctx context.Context, edition string, force bool) (*models.NewsEpisode, error) {
	switch edition {
	case news.EditionMorning, news.EditionMidday, news.EditionEvening:
	default:
		return nil, fmt.Errorf("unknown edition %q", edition)
	}

	settings, err := s.newsRepo.GetSettings()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	editionDate := now.Format("2006-01-02")

	episode, err := s.newsRepo.GetEpisodeByEdition(editionDate, edition)
	switch {
	case err == nil:
		if !force && episode.Status == models.NewsEpisodeStatusPublished {
			s.fillAudioURL(episode)
			return episode, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		episode = &models.NewsEpisode{
			EditionDate: editionDate,
			Edition:     edition,
			Status:      models.NewsEpisodeStatusGenerating,
		}
		if err := s.newsRepo.CreateEpisode(episode); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	headlines, err := s.fetcher.FetchTop(ctx, settings.StoriesPerSection)
	if err != nil {
		s.markFailed(episode)
		return nil, fmt.Errorf("headline fetch failed: %w", err)
	}

	script := news.BuildScript(headlines, edition, now)
	episode.Title = script.Title
	episode.Script = script.PlainText()
	episode.DurationMins = script.EstimatedDuration

	apiKey := settings.ElevenLabsAPIKey
	if apiKey == "" {
		apiKey = s.apiKey
	}

	if apiKey != "" {
		voiceID := settings.AnchorVoiceID
		if voiceID == "" {
			voiceID = news.AnchorVoices[settings.AnchorVoiceName]
		}

		audio, err := news.NewTTSClient(apiKey).Synthesize(ctx, episode.Script, voiceID)
		if err != nil {
			s.markFailed(episode)
			return nil, fmt.Errorf("audio synthesis failed: %w", err)
		}

		key := fmt.Sprintf("news/%s-%s.mp3", editionDate, edition)
		if err := s.storage.Upload(key, bytes.NewReader(audio), "audio/mpeg"); err != nil {
			s.markFailed(episode)
			return nil, fmt.Errorf("audio upload failed: %w", err)
		}
		episode.AudioKey = key
	} else {
		s.logger.Info("no TTS key configured, publishing script-only briefing",
			zap.String("edition", edition))
	}

	episode.Status = models.NewsEpisodeStatusPublished
	if err := s.newsRepo.UpdateEpisode(episode); err != nil {
		return nil, err
	}

	s.logger.Info("briefing published",
		zap.String("date", editionDate),
		zap.String("edition", edition),
		zap.Int("duration_mins", episode.DurationMins),
		zap.Bool("has_audio", episode.AudioKey != ""))

	s.fillAudioURL(episode)
	return episode, nil
}

// RunScheduler fans briefings out across timezones. Called hourly (cron or
// ticker); each pass generates whatever editions have come due somewhere and
// records a delivery row so the same edition never generates twice per zone.
func (s *NewsService) RunScheduler(ctx context.Context) error {
	settings, err := s.newsRepo.GetSettings()
	if err != nil {
		return err
	}
	if !settings.AutoGenerate {
		return nil
	}

	editionTimes := map[string]string{
		news.EditionMorning: settings.MorningTime,
		news.EditionMidday:  settings.MiddayTime,
		news.EditionEvening: settings.EveningTime,
	}

	now := time.Now()
	for _, tz := range deliveryTimezones {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			s.logger.Warn("bad timezone", zap.String("tz", tz), zap.Error(err))
			continue
		}
		local := now.In(loc)
		localDate := local.Format("2006-01-02")

		for edition, at := range editionTimes {
			due, err := time.ParseInLocation("2006-01-02 15:04", localDate+" "+at, loc)
			if err != nil || local.Before(due) {
				continue
			}

			exists, err := s.newsRepo.DeliveryExists(tz, localDate, edition)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			episode, err := s.Generate(ctx, edition, false)
			if err != nil {
				s.logger.Error("scheduled briefing failed",
					zap.String("edition", edition), zap.Error(err))
				continue
			}

			if err := s.newsRepo.EnqueueDelivery(&models.NewsDeliveryQueue{
				Timezone:     tz,
				EditionDate:  localDate,
				Edition:      edition,
				EpisodeID:    episode.ID,
				Status:       models.NewsDeliveryStatusDelivered,
				ScheduledFor: due,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *NewsService) ListEpisodes(limit int) ([]models.NewsEpisode, error) {
	episodes, err := s.newsRepo.ListEpisodes(limit)
	if err != nil {
		return nil, err
	}
	for i := range episodes {
		s.fillAudioURL(&episodes[i])
	}
	return episodes, nil
}

// PublicEpisodes is the archive listing: metadata only, no audio locations.
// Streaming stays behind the access check.
func (s *NewsService) PublicEpisodes(limit int) ([]models.NewsEpisode, error) {
	return s.newsRepo.ListEpisodes(limit)
}

// Latest returns the newest published briefing for a subscriber.
func (s *NewsService) Latest(userID uint) (*models.NewsEpisode, error) {
	hasAccess, err := s.newsRepo.HasAccess(userID, time.Now())
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, ErrNoNewsAccess
	}

	episode, err := s.newsRepo.LatestPublished()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.fillAudioURL(episode)
	return episode, nil
}

// StreamURL returns the audio location of one episode, access-gated.
func (s *NewsService) StreamURL(userID, episodeID uint) (string, error) {
	hasAccess, err := s.newsRepo.HasAccess(userID, time.Now())
	if err != nil {
		return "", err
	}
	if !hasAccess {
		return "", ErrNoNewsAccess
	}

	episode, err := s.newsRepo.GetEpisode(episodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if episode.AudioKey == "" {
		return "", ErrAudioNotReady
	}
	return s.storage.PublicURL(episode.AudioKey), nil
}

func (s *NewsService) GetSettings() (*models.NewsSettingsResponse, error) {
	settings, err := s.newsRepo.GetSettings()
	if err != nil {
		return nil, err
	}

	voices := make([]string, 0, len(news.AnchorVoices))
	for name := range news.AnchorVoices {
		voices = append(voices, name)
	}

	return &models.NewsSettingsResponse{
		Settings:        *settings,
		HasAPIKey:       settings.ElevenLabsAPIKey != "" || s.apiKey != "",
		AvailableVoices: voices,
	}, nil
}

func (s *NewsService) UpdateSettings(req models.UpdateNewsSettingsRequest) (*models.NewsSettingsResponse, error) {
	settings, err := s.newsRepo.GetSettings()
	if err != nil {
		return nil, err
	}

	if req.MorningTime != nil {
		settings.MorningTime = *req.MorningTime
	}
	if req.MiddayTime != nil {
		settings.MiddayTime = *req.MiddayTime
	}
	if req.EveningTime != nil {
		settings.EveningTime = *req.EveningTime
	}
	if req.AutoGenerate != nil {
		settings.AutoGenerate = *req.AutoGenerate
	}
	if req.StoriesPerSection != nil {
		settings.StoriesPerSection = *req.StoriesPerSection
	}
	if req.TargetDurationMins != nil {
		settings.TargetDurationMins = *req.TargetDurationMins
	}
	if req.AnchorVoiceName != nil {
		voiceID, ok := news.AnchorVoices[*req.AnchorVoiceName]
		if !ok {
			return nil, fmt.Errorf("unknown anchor voice %q", *req.AnchorVoiceName)
		}
		settings.AnchorVoiceName = *req.AnchorVoiceName
		settings.AnchorVoiceID = voiceID
	}
	if req.ElevenLabsAPIKey != nil {
		settings.ElevenLabsAPIKey = *req.ElevenLabsAPIKey
	}

	if err := s.newsRepo.SaveSettings(settings); err != nil {
		return nil, err
	}
	return s.GetSettings()
}

func (s *NewsService) fillAudioURL(episode *models.NewsEpisode) {
	if episode.AudioKey != "" {
		episode.AudioURL = s.storage.PublicURL(episode.AudioKey)
	}
}

func (s *NewsService) markFailed(episode *models.NewsEpisode) {
	episode.Status = models.NewsEpisodeStatusFailed
	if err := s.newsRepo.UpdateEpisode(episode); err != nil {
		s.logger.Error("could not mark episode failed", zap.Uint("episode_id", episode.ID), zap.Error(err))
	}
}
