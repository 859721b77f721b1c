package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to its own messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // session token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed/forged token
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthEmailNotVerified   = "AUTH_EMAIL_NOT_VERIFIED"  // email not verified yet
	AuthCodeInvalid        = "AUTH_CODE_INVALID"        // wrong OTP
	AuthCodeExpired        = "AUTH_CODE_EXPIRED"        // OTP past its expiry
	AuthCodeMissing        = "AUTH_CODE_MISSING"        // no OTP on record
	AuthAlreadyVerified    = "AUTH_ALREADY_VERIFIED"    // email already verified
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"      // old password mismatch
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH"   // new/confirm differ
	AuthSamePassword       = "AUTH_SAME_PASSWORD"       // new equals current

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role missing from context
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin role required
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // author-only operation

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Blog (BLOG_) ====================
	BlogNotFound = "BLOG_NOT_FOUND"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
