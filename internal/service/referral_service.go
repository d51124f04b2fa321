package service

import (
	"errors"
	"time"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/pkg/email"
	"github.com/drivetimetales/dtt-backend/pkg/qrcode"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const referralQRSize = 512

type ReferralService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
	emailSvc     *email.EmailService
	qrSvc        *qrcode.QRService
	logger       *zap.Logger
}

func NewReferralService(db *gorm.DB, userRepo *repository.UserRepository, referralRepo *repository.ReferralRepository, emailSvc *email.EmailService, qrSvc *qrcode.QRService, logger *zap.Logger) *ReferralService {
	return &ReferralService{
		db:           db,
		userRepo:     userRepo,
		referralRepo: referralRepo,
		emailSvc:     emailSvc,
		qrSvc:        qrSvc,
		logger:       logger,
	}
}

// CheckCode validates a code before signup, so the frontend can show who the
// referrer is.
func (s *ReferralService) CheckCode(code string) (*models.ReferralCodeCheck, error) {
	normalized := utils.NormalizeReferralCode(code)
	referrer, err := s.userRepo.GetByReferralCode(normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ReferralCodeCheck{Valid: false}, nil
		}
		return nil, err
	}
	return &models.ReferralCodeCheck{
		Valid:        true,
		ReferrerName: referrer.DisplayName,
		Code:         normalized,
	}, nil
}

// ProcessSignup credits the referrer for a completed signup. The reward grant,
// the referral log row and the aggregate bump commit together.
func (s *ReferralService) ProcessSignup(referred *models.User, code string) error {
	normalized := utils.NormalizeReferralCode(code)
	referrer, err := s.userRepo.GetByReferralCode(normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidReferral
		}
		return err
	}
	if referrer.ID == referred.ID {
		return ErrSelfReferral
	}

	if _, err := s.referralRepo.GetByReferredID(referred.ID); err == nil {
		return ErrAlreadyReferred
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	tier, err := s.referralRepo.TierFor(referrer.ReferralCount + 1)
	if err != nil {
		return err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.referralRepo.WithTx(tx).Create(&models.Referral{
			ReferrerID:  referrer.ID,
			ReferredID:  referred.ID,
			Status:      models.ReferralStatusCompleted,
			CompletedAt: &now,
		}); err != nil {
			return err
		}
		if err := s.userRepo.WithTx(tx).AddCredits(referrer.ID, tier.RewardCredits); err != nil {
			return err
		}
		return s.userRepo.WithTx(tx).AddReferralReward(referrer.ID, tier.TierName, tier.RewardCredits)
	})
	if err != nil {
		return err
	}

	go func() {
		if err := s.emailSvc.SendReferralRewardEmail(referrer.Email, referrer.DisplayName, tier.RewardCredits, referred.DisplayName); err != nil {
			s.logger.Warn("referral reward email failed", zap.String("email", referrer.Email), zap.Error(err))
		}
	}()

	return nil
}

// Apply lets an existing account redeem a referral code it missed at signup.
func (s *ReferralService) Apply(userID uint, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	return s.ProcessSignup(user, code)
}

func (s *ReferralService) Stats(userID uint) (*models.ReferralStats, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	referrals, err := s.referralRepo.ListByReferrer(userID)
	if err != nil {
		return nil, err
	}

	tiers, err := s.referralRepo.GetTiers()
	if err != nil {
		return nil, err
	}

	stats := &models.ReferralStats{
		ReferralCode:  user.ReferralCode,
		ReferralCount: user.ReferralCount,
		ReferralTier:  user.ReferralTier,
		CreditsEarned: user.ReferralCreditsEarned,
		Referrals:     referrals,
		Tiers:         tiers,
	}
	for i := range tiers {
		if tiers[i].MinReferrals <= user.ReferralCount {
			stats.CurrentTier = &tiers[i]
		} else if stats.NextTier == nil {
			stats.NextTier = &tiers[i]
		}
	}
	return stats, nil
}

// ShareQR renders the user's referral link as a PNG QR code.
func (s *ReferralService) ShareQR(userID uint) ([]byte, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.qrSvc.GenerateReferralQR(user.ReferralCode, referralQRSize)
}
