package authsdk

// Response is the envelope every endpoint answers with.
type Response[T any] struct {
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
}

// ============================================================================
// Account Types
// ============================================================================

// User is the public view of an account.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SendOTPRequest is the body of POST /api/send-verification-otp.
type SendOTPRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// VerifyOTPRequest is the body of POST /api/verify-otp.
type VerifyOTPRequest struct {
	UserID string `json:"userId" validate:"required"`
	OTP    string `json:"otp" validate:"required,len=6,number"`
}

// AuthResult is returned by a successful login or verification.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// VerificationPending is returned with a 403 when a login succeeds for an
// account whose email is not verified yet.
type VerificationPending struct {
	UserID     string `json:"userId"`
	IsVerified bool   `json:"isVerified"`
}

// UpdateProfileRequest is the body of PUT /api/profile. Omitted fields are
// left unchanged.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,username"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ChangePasswordRequest is the body of POST /api/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// ChangeRoleRequest is the body of PUT /api/users/{id}/role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is the data of the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency of the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Cache    string `json:"cache,omitempty"`
}
