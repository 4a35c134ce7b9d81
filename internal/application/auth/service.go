package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dealer-api/internal/domain"
	jwtinfra "github.com/dealer-api/internal/infrastructure/jwt"
	"github.com/dealer-api/internal/infrastructure/smtp"
	"github.com/dealer-api/internal/infrastructure/sns"
	"github.com/dealer-api/internal/pkg/id"
	"github.com/dealer-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the credential store the auth flows depend on.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// TokenSigner mints signed, time-limited tokens. Purpose is empty for
// session tokens and "reset" for reset-scoped tokens.
type TokenSigner interface {
	Sign(userID, purpose string, ttl time.Duration) (string, error)
}

// Service orchestrates register, login and the password-reset flow.
type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (string, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
	ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) (string, error)
	ValidateOTP(ctx context.Context, req domain.ValidateOTPRequest) (string, error)
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

// ServiceDeps bundles the collaborators of the auth service.
type ServiceDeps struct {
	UserRepo        UserStore
	Mailer          smtp.Mailer
	SMSSender       sns.SMSSender // optional; nil disables the SMS channel
	Tokens          TokenSigner
	SessionTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	OTPTTL          time.Duration
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (string, error) {
	if _, err := s.deps.UserRepo.GetByEmail(ctx, req.Email); err == nil {
		slog.Info("registration rejected, email taken", "email", req.Email)
		return "", fmt.Errorf("user already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.deps.UserRepo.Put(ctx, u); err != nil {
		return "", err
	}

	token, err := s.deps.Tokens.Sign(u.UserID, "", s.deps.SessionTokenTTL)
	if err != nil {
		return "", err
	}
	if err := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{"auth_token": token}); err != nil {
		return "", err
	}

	slog.Info("user registered", "email", req.Email)
	return token, nil
}

// dummyHash is a valid bcrypt digest (DefaultCost) compared against when no
// stored hash is available, so a failed login costs the same whether or not
// the email exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// verifyPassword is bcrypt.CompareHashAndPassword behind a seam that tests
// use to observe both failure branches paying the comparison.
var verifyPassword = bcrypt.CompareHashAndPassword

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	// The same generic failure covers unknown email, absent hash and wrong
	// password, so responses do not reveal which check tripped.
	invalid := fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

	u, err := s.deps.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil || u.PasswordHash == "" {
		_ = verifyPassword(dummyHash, []byte(req.Password))
		slog.Warn("login failed", "email", req.Email)
		return "", invalid
	}
	if verifyPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		slog.Warn("login failed", "email", req.Email)
		return "", invalid
	}

	token, err := s.deps.Tokens.Sign(u.UserID, "", s.deps.SessionTokenTTL)
	if err != nil {
		return "", err
	}
	if err := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{"auth_token": token}); err != nil {
		return "", err
	}

	slog.Info("user logged in", "email", req.Email)
	return token, nil
}

func (s *service) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) (string, error) {
	u, err := s.recoveryUser(ctx, req)
	if err != nil {
		return "", err
	}

	code, err := otp.Generate()
	if err != nil {
		return "", err
	}
	expiry := time.Now().Add(s.deps.OTPTTL).Unix()

	// OTP state is persisted before delivery is attempted: a delivery
	// failure aborts the request but leaves a live, undelivered code whose
	// short expiry bounds the exposure. A repeated request overwrites it.
	if err := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
		"otp":            code,
		"otp_expires_at": expiry,
	}); err != nil {
		return "", err
	}

	// Correlation handle only; carries no purpose and grants nothing the
	// reset guard accepts.
	token, err := s.deps.Tokens.Sign(u.UserID, "", s.deps.SessionTokenTTL)
	if err != nil {
		return "", err
	}

	body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.",
		code, int(s.deps.OTPTTL.Minutes()))
	if req.Email == nil {
		// Phone-identified request: SMS is the required channel, email the
		// best-effort secondary.
		if s.deps.SMSSender == nil {
			return "", fmt.Errorf("sms delivery is not configured")
		}
		if err := s.deps.SMSSender.SendSMS(ctx, *req.PhoneNumber, body); err != nil {
			return "", fmt.Errorf("send OTP sms: %w", err)
		}
		if u.Email != "" {
			if err := s.deps.Mailer.SendEmail(u.Email, "MerzaCars Password Reset OTP", body); err != nil {
				slog.Warn("OTP email delivery failed", "email", u.Email, "err", err)
			}
		}
	} else {
		if err := s.deps.Mailer.SendEmail(u.Email, "MerzaCars Password Reset OTP", body); err != nil {
			return "", fmt.Errorf("send OTP email: %w", err)
		}
		if s.deps.SMSSender != nil && u.Phone != nil {
			if err := s.deps.SMSSender.SendSMS(ctx, *u.Phone, body); err != nil {
				slog.Warn("OTP SMS delivery failed", "email", u.Email, "err", err)
			}
		}
	}

	slog.Info("OTP sent", "email", u.Email)
	return token, nil
}

// recoveryUser resolves the account a recovery request targets, by email
// when present, otherwise by phone number.
func (s *service) recoveryUser(ctx context.Context, req domain.ForgotPasswordRequest) (*domain.User, error) {
	switch {
	case req.Email != nil:
		u, err := s.deps.UserRepo.GetByEmail(ctx, *req.Email)
		if err != nil {
			slog.Info("password recovery for unknown email", "email", *req.Email)
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return u, nil
	case req.PhoneNumber != nil:
		u, err := s.deps.UserRepo.GetByPhone(ctx, *req.PhoneNumber)
		if err != nil {
			slog.Info("password recovery for unknown phone number")
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("email or phone number required: %w", domain.ErrBadRequest)
	}
}

func (s *service) ValidateOTP(ctx context.Context, req domain.ValidateOTPRequest) (string, error) {
	u, err := s.deps.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.OTP == "" || u.OTP != req.OTP {
		slog.Warn("OTP validation failed", "email", req.Email)
		return "", domain.ErrInvalidOTP
	}
	if time.Now().Unix() > u.OTPExpiresAt {
		slog.Warn("OTP expired", "email", req.Email)
		return "", domain.ErrOTPExpired
	}

	resetToken, err := s.deps.Tokens.Sign(u.UserID, jwtinfra.PurposeReset, s.deps.ResetTokenTTL)
	if err != nil {
		return "", err
	}
	// The OTP is single-use: it is cleared the moment it mints a reset
	// token, so the same code cannot mint a second one.
	if err := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
		"reset_token":      resetToken,
		"reset_expires_at": time.Now().Add(s.deps.ResetTokenTTL).Unix(),
		"otp":              "",
		"otp_expires_at":   int64(0),
	}); err != nil {
		return "", err
	}

	slog.Info("OTP validated, reset token issued", "email", req.Email)
	return resetToken, nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	u, err := s.deps.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
		"password_hash":    string(hash),
		"otp":              "",
		"otp_expires_at":   int64(0),
		"reset_token":      "",
		"reset_expires_at": int64(0),
	}); err != nil {
		return err
	}

	slog.Info("password reset", "email", req.Email)
	return nil
}
