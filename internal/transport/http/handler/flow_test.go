package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealer-api/internal/application/auth"
	"github.com/dealer-api/internal/domain"
	jwtinfra "github.com/dealer-api/internal/infrastructure/jwt"
	"github.com/dealer-api/internal/transport/http/middleware"
)

// memUserStore is a stateful in-memory credential store for flow tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by user ID
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*domain.User{}}
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no user for email: %w", domain.ErrNotFound)
}

func (s *memUserStore) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone != nil && *u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no user for phone: %w", domain.ErrNotFound)
}

func (s *memUserStore) Put(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.UserID] = &cp
	return nil
}

func (s *memUserStore) Update(_ context.Context, userID string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "auth_token":
			u.AuthToken = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "otp":
			u.OTP = v.(string)
		case "otp_expires_at":
			u.OTPExpiresAt = v.(int64)
		case "reset_token":
			u.ResetToken = v.(string)
		case "reset_expires_at":
			u.ResetExpiresAt = v.(int64)
		}
	}
	return nil
}

// memMailer records the last delivered message.
type memMailer struct {
	mu       sync.Mutex
	lastBody string
}

func (m *memMailer) SendEmail(_, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastBody = body
	return nil
}

var otpPattern = regexp.MustCompile(`\b\d{6}\b`)

// TestPasswordResetFlow drives the whole lifecycle through the HTTP
// handlers: register, login, a failed login, forgot-password, OTP
// validation, reset with the purpose-scoped token, then login with the new
// password and rejection of the old one.
func TestPasswordResetFlow(t *testing.T) {
	provider := newTestJWTProvider(t)
	store := newMemUserStore()
	mailer := &memMailer{}

	svc := auth.NewService(auth.ServiceDeps{
		UserRepo:        store,
		Mailer:          mailer,
		Tokens:          provider,
		SessionTokenTTL: 24 * time.Hour,
		ResetTokenTTL:   5 * time.Minute,
		OTPTTL:          2 * time.Minute,
	})
	h := NewAuthHandler(svc)

	// Register.
	rr := httptest.NewRecorder()
	h.Register(rr, postJSON("/v1/auth/register", domain.RegisterRequest{
		Name: "Alice", Email: "a@x.com", Password: "secret1",
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	regToken := decodeEnvelope(t, rr).Data.(map[string]interface{})["token"].(string)
	require.NotEmpty(t, regToken)

	// Login with the right password.
	rr = httptest.NewRecorder()
	h.Login(rr, postJSON("/v1/auth/login", domain.LoginRequest{Email: "a@x.com", Password: "secret1"}))
	require.Equal(t, http.StatusOK, rr.Code)

	// Login with the wrong password.
	rr = httptest.NewRecorder()
	h.Login(rr, postJSON("/v1/auth/login", domain.LoginRequest{Email: "a@x.com", Password: "wrong"}))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Forgot password delivers an OTP by email.
	rr = httptest.NewRecorder()
	h.ForgotPassword(rr, postJSON("/v1/auth/forgotpassword", map[string]string{"email": "a@x.com"}))
	require.Equal(t, http.StatusOK, rr.Code)
	code := otpPattern.FindString(mailer.lastBody)
	require.Len(t, code, 6)

	// A wrong code is rejected; the right one mints a reset token.
	rr = httptest.NewRecorder()
	h.ValidateOTP(rr, postJSON("/v1/auth/validOTP", domain.ValidateOTPRequest{Email: "a@x.com", OTP: "000000"}))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.ValidateOTP(rr, postJSON("/v1/auth/validOTP", domain.ValidateOTPRequest{Email: "a@x.com", OTP: code}))
	require.Equal(t, http.StatusOK, rr.Code)
	resetToken := decodeEnvelope(t, rr).Data.(map[string]interface{})["resettoken"].(string)

	claims, err := provider.Verify(resetToken)
	require.NoError(t, err)
	assert.Equal(t, jwtinfra.PurposeReset, claims.Purpose)

	// The OTP is single-use: replaying it fails.
	rr = httptest.NewRecorder()
	h.ValidateOTP(rr, postJSON("/v1/auth/validOTP", domain.ValidateOTPRequest{Email: "a@x.com", OTP: code}))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// Reset with the purpose-scoped token; a session token is refused.
	guard := middleware.RequirePurpose(provider, jwtinfra.PurposeReset)(http.HandlerFunc(h.ResetPassword))

	r := postJSON("/v1/auth/resetpassword", domain.ResetPasswordRequest{Email: "a@x.com", NewPassword: "newsecret"})
	r.Header.Set("Authorization", "Bearer "+regToken)
	rr = httptest.NewRecorder()
	guard.ServeHTTP(rr, r)
	require.Equal(t, http.StatusForbidden, rr.Code)

	r = postJSON("/v1/auth/resetpassword", domain.ResetPasswordRequest{Email: "a@x.com", NewPassword: "newsecret"})
	r.Header.Set("Authorization", "Bearer "+resetToken)
	rr = httptest.NewRecorder()
	guard.ServeHTTP(rr, r)
	require.Equal(t, http.StatusOK, rr.Code)

	// New password works, old one does not.
	rr = httptest.NewRecorder()
	h.Login(rr, postJSON("/v1/auth/login", domain.LoginRequest{Email: "a@x.com", Password: "newsecret"}))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Login(rr, postJSON("/v1/auth/login", domain.LoginRequest{Email: "a@x.com", Password: "secret1"}))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
