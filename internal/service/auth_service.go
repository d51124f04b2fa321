package service

import (
	"errors"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/pkg/bcrypt"
	"github.com/drivetimetales/dtt-backend/pkg/email"
	"github.com/drivetimetales/dtt-backend/pkg/jwt"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New accounts start with a few credits so the first story is free-ish.
const signupBonusCredits = 3

const referralCodeLength = 8

type AuthService struct {
	userRepo    *repository.UserRepository
	referralSvc *ReferralService
	emailSvc    *email.EmailService
	logger      *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, referralSvc *ReferralService, emailSvc *email.EmailService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		referralSvc: referralSvc,
		emailSvc:    emailSvc,
		logger:      logger,
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueReferralCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Password:     hashed,
		Credits:      signupBonusCredits,
		ReferralCode: code,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// An invalid or self referral code never blocks the signup.
	if req.ReferralCode != "" {
		if err := s.referralSvc.ProcessSignup(user, req.ReferralCode); err != nil {
			s.logger.Warn("referral not applied",
				zap.Uint("user_id", user.ID),
				zap.String("code", req.ReferralCode),
				zap.Error(err))
		}
	}

	go func() {
		if err := s.emailSvc.SendWelcomeEmail(user.Email, user.DisplayName); err != nil {
			s.logger.Warn("welcome email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	token, err := jwt.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) uniqueReferralCode() (string, error) {
	for i := 0; i < 5; i++ {
		code := utils.GenerateReferralCode(referralCodeLength)
		_, err := s.userRepo.GetByReferralCode(code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not generate a unique referral code")
}
