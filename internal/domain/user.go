package domain

import "time"

// User is the back-office identity record. OTP and reset-token state lives
// on the record itself; OTP and OTPExpiresAt are set and cleared together,
// as are ResetToken and ResetExpiresAt.
type User struct {
	UserID       string  `json:"id" dynamodbav:"user_id"`
	Name         string  `json:"name" dynamodbav:"name"`
	Email        string  `json:"email" dynamodbav:"email"`
	Phone        *string `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash string  `json:"-" dynamodbav:"password_hash"`

	// AuthToken records the last-issued session token. It is an audit
	// field, not a revocation mechanism: verification is stateless and
	// previously issued tokens stay valid until their own expiry.
	AuthToken string `json:"-" dynamodbav:"auth_token"`

	OTP            string `json:"-" dynamodbav:"otp"`
	OTPExpiresAt   int64  `json:"-" dynamodbav:"otp_expires_at"`
	ResetToken     string `json:"-" dynamodbav:"reset_token"`
	ResetExpiresAt int64  `json:"-" dynamodbav:"reset_expires_at"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest carries the recovery address. Exactly one of Email
// or PhoneNumber is expected; email is the primary channel.
type ForgotPasswordRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
}

type ValidateOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
