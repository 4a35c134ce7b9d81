package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealer-api/internal/config"
	jwtinfra "github.com/dealer-api/internal/infrastructure/jwt"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:       "router-test-secret",
		SessionTokenTTL: 24 * time.Hour,
		ResetTokenTTL:   5 * time.Minute,
		OTPTTL:          2 * time.Minute,
		AllowedOrigins:  []string{"*"},
	}
	provider, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)
	return NewRouter(cfg, &Deps{JWTProvider: provider})
}

// TestValidOTPRateLimited exhausts the sensitive-endpoint burst against
// /v1/auth/validOTP; the OTP check must not be open to unbounded guessing.
func TestValidOTPRateLimited(t *testing.T) {
	router := newTestRouter(t)

	// The first ten requests from one IP fit the burst and fail on the
	// malformed body instead.
	for i := 0; i < 10; i++ {
		r := httptest.NewRequest(http.MethodPost, "/v1/auth/validOTP", strings.NewReader("not-json"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "request %d", i+1)
	}

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/validOTP", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
