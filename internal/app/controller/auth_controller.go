package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lexxo/lexxo-backend/internal/app/model"
	"github.com/lexxo/lexxo-backend/internal/app/service"
	apperrors "github.com/lexxo/lexxo-backend/internal/errors"
	"github.com/lexxo/lexxo-backend/internal/middleware"
)

type AuthController struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
	cookieMaxAge         int
}

func NewAuthController(authService service.AuthService, passwordResetService service.PasswordResetService, sessionExpiry time.Duration) *AuthController {
	return &AuthController{
		authService:          authService,
		passwordResetService: passwordResetService,
		cookieMaxAge:         int(sessionExpiry.Seconds()),
	}
}

type RegisterRequest struct {
	Name     string         `json:"name" binding:"required,min=3,max=30"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=8,max=32"`
	Role     model.UserRole `json:"role" binding:"omitempty,oneof=user admin"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	OTP             string `json:"otp" binding:"required,len=6"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=32"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// setSessionCookie attaches the session token as an HttpOnly cookie.
// SameSite=None so the cookie survives cross-site requests from the frontend.
func (ctrl *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookieName, token, ctrl.cookieMaxAge, "/", "", true, true)
}

// clearSessionCookie expires the session cookie immediately
func (ctrl *AuthController) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name, email and password are required. Password must be 8-32 characters")
		return
	}

	log.Debug("Processing registration", map[string]interface{}{
		"email": req.Email,
		"name":  req.Name,
	})

	user, err := ctrl.authService.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.BadRequest(c, apperrors.AuthEmailAlreadyExists, "This email is already registered")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful. Verification email sent.",
		"email":   user.Email,
	})
}

// VerifyEmail confirms the OTP sent at registration and opens a session
// POST /api/v1/auth/verify-email
func (ctrl *AuthController) VerifyEmail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid verify email request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and a 6-digit OTP are required")
		return
	}

	user, token, err := ctrl.authService.VerifyEmail(req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			log.Warn("Verification failed: user not found", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrAlreadyVerified):
			log.Warn("Verification failed: already verified", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.BadRequest(c, apperrors.AuthAlreadyVerified, "Email is already verified")
		case errors.Is(err, service.ErrOTPMissing):
			apperrors.BadRequest(c, apperrors.AuthCodeMissing, "OTP expired or not generated. Please request a new one")
		case errors.Is(err, service.ErrInvalidOTP):
			log.Warn("Verification failed: invalid OTP", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Invalid OTP")
		case errors.Is(err, service.ErrOTPExpired):
			apperrors.BadRequest(c, apperrors.AuthCodeExpired, "OTP has expired. Please request a new one")
		default:
			log.Error("Email verification failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "verify email")
		}
		return
	}

	ctrl.setSessionCookie(c, token)

	log.Info("Email verified successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully!",
		"user":    user,
		"token":   token,
	})
}

// ResendVerification issues a fresh OTP for an unverified account
// POST /api/v1/auth/resend-verification
func (ctrl *AuthController) ResendVerification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid resend verification request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email is required")
		return
	}

	if err := ctrl.authService.ResendVerificationOTP(req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrAlreadyVerified):
			apperrors.BadRequest(c, apperrors.AuthAlreadyVerified, "Email is already verified")
		default:
			log.Error("Failed to resend verification OTP", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resend verification")
		}
		return
	}

	log.Info("Verification OTP resent", map[string]interface{}{
		"email": req.Email,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "A new OTP has been sent to your email",
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	log.Debug("Processing login", map[string]interface{}{
		"email": req.Email,
	})

	user, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		if errors.Is(err, service.ErrEmailNotVerified) {
			log.Warn("Login failed: email not verified", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthEmailNotVerified, "Please verify your email before logging in")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	ctrl.setSessionCookie(c, token)

	log.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// Logout clears the session cookie
// GET /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ctrl.clearSessionCookie(c)

	if userID, exists := middleware.GetUserID(c); exists {
		log.Info("User logged out", map[string]interface{}{
			"user_id": userID,
		})
	} else {
		log.Debug("Logout called without authenticated user", nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully.",
	})
}

// GetProfile returns current user information
// GET /api/v1/auth/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to profile endpoint", nil)
		apperrors.Unauthorized(c, "Please log in to continue")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn("User not found", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to get user information", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// UpdatePassword changes the password of the authenticated user and rotates
// the session token
// PUT /api/v1/auth/update-password
func (ctrl *AuthController) UpdatePassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to update password endpoint", nil)
		apperrors.Unauthorized(c, "Please log in to continue")
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update password request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Old password and new password are required")
		return
	}

	user, token, err := ctrl.authService.UpdatePassword(userID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrWrongOldPassword):
			log.Warn("Password update failed: old password mismatch", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.AuthWrongPassword, "Old password is incorrect")
		case errors.Is(err, service.ErrPasswordLength):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Password must be between 8 and 32 characters")
		default:
			log.Error("Failed to update password", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update password")
		}
		return
	}

	ctrl.setSessionCookie(c, token)

	log.Info("Password updated successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
		"user":    user,
		"token":   token,
	})
}

// ForgotPassword starts the password reset flow by emailing an OTP
// POST /api/v1/auth/forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid forgot password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email is required")
		return
	}

	log.Debug("Processing forgot password request", map[string]interface{}{
		"email": req.Email,
	})

	if err := ctrl.passwordResetService.RequestReset(req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn("Forgot password: user not found", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to process password reset request", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "request password reset")
		return
	}

	log.Info("Password reset OTP sent", map[string]interface{}{
		"email": req.Email,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("OTP sent to %s", req.Email),
	})
}

// ResetPassword completes the reset flow with the emailed OTP and opens a
// fresh session
// POST /api/v1/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "OTP, new password and confirm password are required")
		return
	}

	user, token, err := ctrl.passwordResetService.ResetPassword(req.OTP, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			apperrors.BadRequest(c, apperrors.AuthPasswordMismatch, "New password and confirm password do not match")
		case errors.Is(err, service.ErrInvalidResetOTP):
			log.Warn("Password reset failed: invalid OTP", nil)
			apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Invalid OTP")
		case errors.Is(err, service.ErrResetOTPExpired):
			apperrors.BadRequest(c, apperrors.AuthCodeExpired, "OTP has expired. Please request a new one")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrSamePassword):
			apperrors.BadRequest(c, apperrors.AuthSamePassword, "New password must be different from the current password")
		default:
			log.Error("Failed to reset password", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reset password")
		}
		return
	}

	ctrl.setSessionCookie(c, token)

	log.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successful",
		"user":    user,
		"token":   token,
	})
}
