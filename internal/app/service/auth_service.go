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
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrOTPMissing         = errors.New("otp expired or not generated")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp has expired")
	ErrWrongOldPassword   = errors.New("old password is incorrect")
	ErrPasswordLength     = errors.New("password must be between 8 and 32 characters")
)

// Mailer dispatches transactional mail; satisfied by pkg/mailer.Mailer
type Mailer interface {
	SendOTP(to, subject, otp string) error
}

type AuthService interface {
	Register(name, email, password string, role model.UserRole) (*model.User, error)
	VerifyEmail(email, otp string) (*model.User, string, error)
	ResendVerificationOTP(email string) error
	Login(email, password string) (*model.User, string, error)
	GetUserByID(id uint) (*model.User, error)
	UpdatePassword(userID uint, oldPassword, newPassword string) (*model.User, string, error)
}

type authService struct {
	userRepo  repository.UserRepository
	mailer    Mailer
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	mailer Mailer,
	jwtSecret string,
	jwtExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates an unverified account and emails it a verification code.
// No session token is issued until the email is verified.
func (s *authService) Register(name, email, password string, role model.UserRole) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	otp, err := util.GenerateOTP()
	if err != nil {
		logger.Error("Failed to generate OTP", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	otpExpires := time.Now().Add(util.OTPExpiry)

	if role != model.RoleAdmin {
		role = model.RoleUser
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		OTP:          &otp,
		OTPExpires:   &otpExpires,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if err := s.mailer.SendOTP(user.Email, "Verify Your Email", otp); err != nil {
		logger.Error("Failed to send verification email", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, nil
}

// VerifyEmail checks the code, marks the account verified, clears the OTP
// fields and issues the first session token.
func (s *authService) VerifyEmail(email, otp string) (*model.User, string, error) {
	logger.Info("Verifying email", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if user.IsVerified {
		logger.Warn("Verification failed: already verified", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrAlreadyVerified
	}

	if user.OTP == nil || user.OTPExpires == nil {
		return nil, "", ErrOTPMissing
	}

	if *user.OTP != otp {
		logger.Warn("Verification failed: OTP mismatch", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrInvalidOTP
	}

	if user.OTPExpires.Before(time.Now()) {
		logger.Warn("Verification failed: OTP expired", map[string]interface{}{
			"email":       email,
			"otp_expires": user.OTPExpires,
		})
		return nil, "", ErrOTPExpired
	}

	user.IsVerified = true
	user.OTP = nil
	user.OTPExpires = nil

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to persist email verification", err, map[string]interface{}{
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

	logger.Info("Email verified successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})

	return user, token, nil
}

// ResendVerificationOTP regenerates the code for a still-unverified account
// and re-dispatches the email. No session token is issued.
func (s *authService) ResendVerificationOTP(email string) error {
	logger.Info("Resending verification OTP", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	otp, err := util.GenerateOTP()
	if err != nil {
		logger.Error("Failed to generate OTP", err, map[string]interface{}{
			"email": email,
		})
		return err
	}
	otpExpires := time.Now().Add(util.OTPExpiry)

	user.OTP = &otp
	user.OTPExpires = &otpExpires

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to store new OTP", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.mailer.SendOTP(user.Email, "Account Verification OTP", otp); err != nil {
		logger.Error("Failed to resend verification email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Verification OTP resent", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})

	return nil
}

// Login verifies credentials and issues a session token. Wrong email and
// wrong password fail identically so accounts cannot be enumerated.
func (s *authService) Login(email, password string) (*model.User, string, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsVerified {
		logger.Warn("Login failed: email not verified", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, "", ErrEmailNotVerified
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, token, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	logger.Debug("Fetching user by ID", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return user, nil
}

// UpdatePassword rehashes and stores the new password, then re-issues the
// session token. Hashing happens here and only here: an unrelated save can
// never rehash an already-hashed value.
func (s *authService) UpdatePassword(userID uint, oldPassword, newPassword string) (*model.User, string, error) {
	logger.Info("Updating password", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, oldPassword) {
		logger.Warn("Password update failed: old password mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return nil, "", ErrWrongOldPassword
	}

	if len(newPassword) < 8 || len(newPassword) > 32 {
		return nil, "", ErrPasswordLength
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, "", err
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to persist new password", err, map[string]interface{}{
			"user_id": userID,
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

	logger.Info("Password updated successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	return user, token, nil
}
