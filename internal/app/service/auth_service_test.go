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
)

// mockMailer records sent OTPs instead of talking to an SMTP server
type mockMailer struct {
	sentTo   []string
	subjects []string
	otps     []string
	err      error
}

func (m *mockMailer) SendOTP(to, subject, otp string) error {
	if m.err != nil {
		return m.err
	}
	m.sentTo = append(m.sentTo, to)
	m.subjects = append(m.subjects, subject)
	m.otps = append(m.otps, otp)
	return nil
}

func (m *mockMailer) lastOTP() string {
	if len(m.otps) == 0 {
		return ""
	}
	return m.otps[len(m.otps)-1]
}

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository, *mockMailer) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	mailer := &mockMailer{}
	authService := NewAuthService(userRepo, mailer, "test-secret", 24*time.Hour)

	return authService, userRepo, mailer
}

func TestAuthService_Register(t *testing.T) {
	authService, userRepo, mailer := setupAuthServiceTest(t)

	user, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, user.IsVerified)

	// Password is stored hashed
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "password123"))

	// OTP is set with a ten minute window
	stored, err := userRepo.FindByEmail("test@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.OTP)
	require.NotNil(t, stored.OTPExpires)
	assert.Len(t, *stored.OTP, 6)
	assert.WithinDuration(t, time.Now().Add(util.OTPExpiry), *stored.OTPExpires, 5*time.Second)

	// Verification email went out with the stored OTP
	require.Len(t, mailer.otps, 1)
	assert.Equal(t, "test@example.com", mailer.sentTo[0])
	assert.Equal(t, *stored.OTP, mailer.otps[0])
}

func TestAuthService_Register_AdminRole(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	user, err := authService.Register("Admin User", "admin@example.com", "password123", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestAuthService_Register_UnknownRoleFallsBackToUser(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	user, err := authService.Register("Test User", "test@example.com", "password123", "superuser")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	_, err = authService.Register("Other User", "test@example.com", "different456", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	authService, userRepo, mailer := setupAuthServiceTest(t)

	_, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	user, token, err := authService.VerifyEmail("test@example.com", mailer.lastOTP())
	require.NoError(t, err)

	assert.True(t, user.IsVerified)
	assert.NotEmpty(t, token)

	// Token carries the verified identity
	claims, err := util.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)

	// OTP fields are cleared after successful verification
	stored, err := userRepo.FindByEmail("test@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored.OTP)
	assert.Nil(t, stored.OTPExpires)
}

func TestAuthService_VerifyEmail_InvalidOTP(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	_, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	wrongOTP := "000000"
	if mailer.lastOTP() == wrongOTP {
		wrongOTP = "111111"
	}

	_, _, err = authService.VerifyEmail("test@example.com", wrongOTP)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestAuthService_VerifyEmail_ExpiredOTP(t *testing.T) {
	authService, userRepo, mailer := setupAuthServiceTest(t)

	_, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	// Push the expiry into the past
	stored, err := userRepo.FindByEmail("test@example.com")
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	stored.OTPExpires = &expired
	require.NoError(t, userRepo.Update(stored))

	_, _, err = authService.VerifyEmail("test@example.com", mailer.lastOTP())
	assert.ErrorIs(t, err, ErrOTPExpired)

	// Account stays unverified
	stored, err = userRepo.FindByEmail("test@example.com")
	require.NoError(t, err)
	assert.False(t, stored.IsVerified)
}

func TestAuthService_VerifyEmail_AlreadyVerified(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	_, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	otp := mailer.lastOTP()
	_, _, err = authService.VerifyEmail("test@example.com", otp)
	require.NoError(t, err)

	_, _, err = authService.VerifyEmail("test@example.com", otp)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestAuthService_VerifyEmail_UserNotFound(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, _, err := authService.VerifyEmail("nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ResendVerificationOTP(t *testing.T) {
	authService, userRepo, mailer := setupAuthServiceTest(t)

	_, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	err = authService.ResendVerificationOTP("test@example.com")
	require.NoError(t, err)

	// A second email went out and its OTP is the one now on record
	require.Len(t, mailer.otps, 2)
	stored, err := userRepo.FindByEmail("test@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.OTP)
	assert.Equal(t, *stored.OTP, mailer.lastOTP())
}

func TestAuthService_ResendVerificationOTP_AlreadyVerified(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	_, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)
	_, _, err = authService.VerifyEmail("test@example.com", mailer.lastOTP())
	require.NoError(t, err)

	err = authService.ResendVerificationOTP("test@example.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

// registerVerified is a helper producing a verified account
func registerVerified(t *testing.T, authService AuthService, mailer *mockMailer, email, password string) *model.User {
	t.Helper()

	_, err := authService.Register("Test User", email, password, "")
	require.NoError(t, err)

	user, _, err := authService.VerifyEmail(email, mailer.lastOTP())
	require.NoError(t, err)

	return user
}

func TestAuthService_Login(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	registerVerified(t, authService, mailer, "test@example.com", "password123")

	user, token, err := authService.Login("test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEmpty(t, token)
}

func TestAuthService_Login_NotVerified(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, err := authService.Register("Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	_, _, err = authService.Login("test@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	registerVerified(t, authService, mailer, "test@example.com", "password123")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
		},
		{
			// Unknown accounts yield the same error as a wrong password
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := authService.Login(tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	created := registerVerified(t, authService, mailer, "test@example.com", "password123")

	user, err := authService.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, user.Email)

	_, err = authService.GetUserByID(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	created := registerVerified(t, authService, mailer, "test@example.com", "oldpassword1")

	user, token, err := authService.UpdatePassword(created.ID, "oldpassword1", "newpassword2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "newpassword2"))

	// Old password no longer works
	_, _, err = authService.Login("test@example.com", "oldpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("test@example.com", "newpassword2")
	assert.NoError(t, err)
}

func TestAuthService_UpdatePassword_WrongOldPassword(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	created := registerVerified(t, authService, mailer, "test@example.com", "oldpassword1")

	_, _, err := authService.UpdatePassword(created.ID, "notTheOldOne", "newpassword2")
	assert.ErrorIs(t, err, ErrWrongOldPassword)
}

func TestAuthService_UpdatePassword_Length(t *testing.T) {
	authService, _, mailer := setupAuthServiceTest(t)

	created := registerVerified(t, authService, mailer, "test@example.com", "oldpassword1")

	tests := []struct {
		name        string
		newPassword string
	}{
		{
			name:        "too short",
			newPassword: "short",
		},
		{
			name:        "too long",
			newPassword: "thisPasswordIsWayTooLongToBeAccepted123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := authService.UpdatePassword(created.ID, "oldpassword1", tt.newPassword)
			assert.ErrorIs(t, err, ErrPasswordLength)
		})
	}
}
