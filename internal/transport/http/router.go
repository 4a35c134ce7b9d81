package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/dealer-api/internal/application/auth"
	"github.com/dealer-api/internal/application/listing"
	"github.com/dealer-api/internal/application/team"
	"github.com/dealer-api/internal/config"
	"github.com/dealer-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/dealer-api/internal/infrastructure/jwt"
	s3infra "github.com/dealer-api/internal/infrastructure/s3"
	"github.com/dealer-api/internal/infrastructure/smtp"
	"github.com/dealer-api/internal/infrastructure/sns"
	"github.com/dealer-api/internal/transport/http/handler"
	appmiddleware "github.com/dealer-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	ListingRepo *dynamo.ListingRepo
	TeamRepo    *dynamo.TeamRepo
	S3Store     *s3infra.Store
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handler.SetVerboseErrors(!cfg.IsProduction())

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:        deps.UserRepo,
		Mailer:          deps.Mailer,
		SMSSender:       deps.SMSSender,
		Tokens:          deps.JWTProvider,
		SessionTokenTTL: cfg.SessionTokenTTL,
		ResetTokenTTL:   cfg.ResetTokenTTL,
		OTPTTL:          cfg.OTPTTL,
	})
	listingSvc := listing.NewService(deps.ListingRepo, deps.S3Store)
	teamSvc := team.NewService(deps.TeamRepo, deps.S3Store)

	authH := handler.NewAuthHandler(authSvc)
	carsH := handler.NewCarsHandler(listingSvc)
	teamH := handler.NewTeamHandler(teamSvc)

	authMw := appmiddleware.Auth(deps.JWTProvider)
	resetMw := appmiddleware.RequirePurpose(deps.JWTProvider, jwtinfra.PurposeReset)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/ping", handler.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/forgotpassword", authH.ForgotPassword)
		r.With(sensitiveRL.Limit).Post("/auth/validOTP", authH.ValidateOTP)

		r.With(authMw).Post("/auth/verifytoken", authH.VerifyToken)
		r.With(resetMw).Post("/auth/resetpassword", authH.ResetPassword)

		r.Get("/cars", carsH.List)
		r.Get("/cars/{id}", carsH.Get)
		r.Get("/team", teamH.List)
		r.Get("/team/{id}", teamH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/cars", carsH.Create)
			r.Put("/cars/{id}", carsH.Update)
			r.Delete("/cars/{id}", carsH.Delete)

			r.Post("/team", teamH.Create)
			r.Put("/team/{id}", teamH.Update)
			r.Delete("/team/{id}", teamH.Delete)
		})
	})

	return r
}
