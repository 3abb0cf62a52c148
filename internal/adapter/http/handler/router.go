package handler

import (
	"alumni-platform/internal/adapter/http/middleware"
	"alumni-platform/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	DonationSvc    ports.DonationService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	RateLimiter    middleware.Limiter // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimiter == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimiter, group, rule, deps.Logger)
	}

	api := r.Group("/api")

	// Deep check: PostgreSQL + Redis
	api.GET("/health", HealthCheck(deps.HealthCheckers...))

	jwtAuth := middleware.JWTAuth(deps.TokenSvc)
	optionalAuth := middleware.OptionalJWTAuth(deps.TokenSvc)

	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := api.Group("/auth")
	{
		auth.POST("/register", rl(middleware.GroupAuthRegister), authHandler.Register)
		auth.POST("/login", rl(middleware.GroupAuthLogin), authHandler.Login)
		auth.GET("/me", jwtAuth, rl(middleware.GroupDonationsRead), authHandler.Me)
	}

	donationHandler := NewDonationHandler(deps.DonationSvc, deps.ReportingSvc)
	donations := api.Group("/donations")
	{
		// Anonymous donors may skip the token; the service enforces it otherwise.
		donations.POST("/create-order", optionalAuth, rl(middleware.GroupDonationsOrder), donationHandler.CreateOrder)
		donations.POST("/verify-payment", jwtAuth, rl(middleware.GroupDonationsVerify), donationHandler.VerifyPayment)
		donations.GET("/progress", rl(middleware.GroupDonationsRead), donationHandler.Progress)
		donations.GET("/history", jwtAuth, rl(middleware.GroupDonationsRead), donationHandler.History)
		donations.GET("/my-donations", jwtAuth, rl(middleware.GroupDonationsRead), donationHandler.MyDonations)
	}

	return r
}
