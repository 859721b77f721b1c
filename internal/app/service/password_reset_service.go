package service

import (
	"errors"
	"time"

	"github.com/lexxo/lexxo-backend/internal/app/model"
	"github.com/lexxo/lexxo-backend/internal/app/repository"
	"github.com/lexxo/lexxo-backend/pkg/logger"
	"github.com/lexxo/lexxo-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrPasswordMismatch = errors.New("new password and confirm password do not match")
	ErrInvalidResetOTP  = errors.New("invalid reset otp")
	ErrResetOTPExpired  = errors.New("reset otp has expired")
	ErrSamePassword     = errors.New("password is already same")
)

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(otp, newPassword, confirmPassword string) (*model.User, string, error)
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
	mailer    Mailer
	db        *gorm.DB
	jwtSecret string
	jwtExpiry time.Duration
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
	mailer Mailer,
	db *gorm.DB,
	jwtSecret string,
	jwtExpiry time.Duration,
) PasswordResetService {
	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
		mailer:    mailer,
		db:        db,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// RequestReset creates a fresh reset request for the account, replacing any
// prior one, and emails the code.
func (s *passwordResetService) RequestReset(email string) error {
	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for unknown email", map[string]interface{}{
				"email": email,
			})
			return ErrUserNotFound
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	otp, err := util.GenerateOTP()
	if err != nil {
		logger.Error("Failed to generate reset OTP", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	reset := &model.PasswordResetRequest{
		UserID:     user.ID,
		OTP:        otp,
		OTPExpires: time.Now().Add(util.OTPExpiry),
	}

	if err := s.resetRepo.Replace(reset); err != nil {
		logger.Error("Failed to store password reset request", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.mailer.SendOTP(email, "Verify Your Email", otp); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset OTP sent", map[string]interface{}{
		"user_id":     user.ID,
		"email":       email,
		"otp_expires": reset.OTPExpires,
	})

	return nil
}

// ResetPassword validates the code and stores the rehashed password. The
// password write and the reset-row delete commit together.
func (s *passwordResetService) ResetPassword(otp, newPassword, confirmPassword string) (*model.User, string, error) {
	logger.Info("Processing password reset with OTP")

	if newPassword != confirmPassword {
		return nil, "", ErrPasswordMismatch
	}

	reset, err := s.resetRepo.FindByOTP(otp)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset failed: no matching request")
			return nil, "", ErrInvalidResetOTP
		}
		logger.Error("Failed to look up reset request", err)
		return nil, "", err
	}

	if reset.OTPExpires.Before(time.Now()) {
		logger.Warn("Password reset failed: OTP expired", map[string]interface{}{
			"user_id":     reset.UserID,
			"otp_expires": reset.OTPExpires,
		})
		return nil, "", ErrResetOTPExpired
	}

	user, err := s.userRepo.FindByID(reset.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"user_id": reset.UserID,
		})
		return nil, "", err
	}

	if util.VerifyPassword(user.PasswordHash, newPassword) {
		logger.Warn("Password reset failed: password unchanged", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrSamePassword
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	user.PasswordHash = hashedPassword

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PasswordResetRequest{}, reset.ID).Error
	})
	if err != nil {
		logger.Error("Failed to persist password reset", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return user, token, nil
}
