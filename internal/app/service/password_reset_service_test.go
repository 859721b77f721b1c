package service

import (
	"testing"
	"time"

	"github.com/lexxo/lexxo-backend/internal/app/model"
	"github.com/lexxo/lexxo-backend/internal/app/repository"
	"github.com/lexxo/lexxo-backend/internal/db"
	"github.com/lexxo/lexxo-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPasswordResetTest(t *testing.T) (PasswordResetService, AuthService, *mockMailer, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)
	mailer := &mockMailer{}

	authService := NewAuthService(userRepo, mailer, "test-secret", 24*time.Hour)
	resetService := NewPasswordResetService(resetRepo, userRepo, mailer, testDB, "test-secret", 24*time.Hour)

	return resetService, authService, mailer, testDB
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	resetService, authService, mailer, testDB := setupPasswordResetTest(t)

	user := registerVerified(t, authService, mailer, "test@example.com", "password123")

	err := resetService.RequestReset("test@example.com")
	require.NoError(t, err)

	// One reset row exists for the user with the emailed OTP
	var resets []model.PasswordResetRequest
	require.NoError(t, testDB.Where("user_id = ?", user.ID).Find(&resets).Error)
	require.Len(t, resets, 1)
	assert.Equal(t, mailer.lastOTP(), resets[0].OTP)
	assert.WithinDuration(t, time.Now().Add(util.OTPExpiry), resets[0].OTPExpires, 5*time.Second)
}

func TestPasswordResetService_RequestReset_UnknownEmail(t *testing.T) {
	resetService, _, _, _ := setupPasswordResetTest(t)

	err := resetService.RequestReset("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPasswordResetService_RequestReset_ReplacesPrevious(t *testing.T) {
	resetService, authService, mailer, testDB := setupPasswordResetTest(t)

	user := registerVerified(t, authService, mailer, "test@example.com", "password123")

	require.NoError(t, resetService.RequestReset("test@example.com"))
	require.NoError(t, resetService.RequestReset("test@example.com"))

	// Only the latest request survives
	var resets []model.PasswordResetRequest
	require.NoError(t, testDB.Where("user_id = ?", user.ID).Find(&resets).Error)
	require.Len(t, resets, 1)
	assert.Equal(t, mailer.lastOTP(), resets[0].OTP)
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	resetService, authService, mailer, testDB := setupPasswordResetTest(t)

	createdUser := registerVerified(t, authService, mailer, "test@example.com", "password123")
	require.NoError(t, resetService.RequestReset("test@example.com"))

	user, token, err := resetService.ResetPassword(mailer.lastOTP(), "newpassword9", "newpassword9")
	require.NoError(t, err)
	assert.Equal(t, createdUser.ID, user.ID)
	assert.NotEmpty(t, token)

	// New password works, old one does not
	_, _, err = authService.Login("test@example.com", "newpassword9")
	assert.NoError(t, err)
	_, _, err = authService.Login("test@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The reset request is consumed
	var count int64
	require.NoError(t, testDB.Model(&model.PasswordResetRequest{}).Where("user_id = ?", createdUser.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPasswordResetService_ResetPassword_Mismatch(t *testing.T) {
	resetService, _, _, _ := setupPasswordResetTest(t)

	_, _, err := resetService.ResetPassword("123456", "newpassword9", "differentpass")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestPasswordResetService_ResetPassword_InvalidOTP(t *testing.T) {
	resetService, authService, mailer, _ := setupPasswordResetTest(t)

	registerVerified(t, authService, mailer, "test@example.com", "password123")
	require.NoError(t, resetService.RequestReset("test@example.com"))

	wrongOTP := "000000"
	if mailer.lastOTP() == wrongOTP {
		wrongOTP = "111111"
	}

	_, _, err := resetService.ResetPassword(wrongOTP, "newpassword9", "newpassword9")
	assert.ErrorIs(t, err, ErrInvalidResetOTP)
}

func TestPasswordResetService_ResetPassword_ExpiredOTP(t *testing.T) {
	resetService, authService, mailer, testDB := setupPasswordResetTest(t)

	registerVerified(t, authService, mailer, "test@example.com", "password123")
	require.NoError(t, resetService.RequestReset("test@example.com"))

	// Age the request past its window
	require.NoError(t, testDB.Model(&model.PasswordResetRequest{}).
		Where("otp = ?", mailer.lastOTP()).
		Update("otp_expires", time.Now().Add(-time.Minute)).Error)

	_, _, err := resetService.ResetPassword(mailer.lastOTP(), "newpassword9", "newpassword9")
	assert.ErrorIs(t, err, ErrResetOTPExpired)

	// Password is untouched
	_, _, err = authService.Login("test@example.com", "password123")
	assert.NoError(t, err)
}

func TestPasswordResetService_ResetPassword_SamePassword(t *testing.T) {
	resetService, authService, mailer, _ := setupPasswordResetTest(t)

	registerVerified(t, authService, mailer, "test@example.com", "password123")
	require.NoError(t, resetService.RequestReset("test@example.com"))

	_, _, err := resetService.ResetPassword(mailer.lastOTP(), "password123", "password123")
	assert.ErrorIs(t, err, ErrSamePassword)
}
