package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wenwu/saas-platform/storefront-service/internal/client"
	"github.com/wenwu/saas-platform/storefront-service/internal/config"
	"github.com/wenwu/saas-platform/storefront-service/internal/service"
)

// RateLimiter is a simple in-memory sliding-window limiter.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow reports whether a request under key fits in the window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	var valid []time.Time
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

// RateLimitMiddleware keys on the authenticated email, falling back to the
// client IP for unauthenticated routes.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("userEmail")
		if key == "" {
			key = c.ClientIP()
		}

		if !rl.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

type Server struct {
	router  *gin.Engine
	handler *Handler
	cfg     *config.Config
}

// Session rate limiter: 60 requests per user per minute covers dashboard
// polling with room to spare.
var sessionRateLimiter = NewRateLimiter(60, time.Minute)

// Deploys are expensive on the provisioner side; 5 per hour covers retries
// after failed attempts without letting a double-submit storm through.
var deployRateLimiter = NewRateLimiter(5, time.Hour)

func NewServer(cfg *config.Config, accounts *service.AccountService, billing *service.BillingService, provisioner *client.ProvisionerClient) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	handler := NewHandler(accounts, billing, provisioner, cfg.JWT.SecretKey)

	s := &Server{
		router:  router,
		handler: handler,
		cfg:     cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "storefront-service",
		})
	})

	// Public API - no authentication required
	public := s.router.Group("/api/v1/public")
	{
		public.GET("/plans", s.handler.GetPlans)
		public.GET("/provisioner/health", s.handler.ProvisionerHealth)
	}

	// Auth - opens the session, so no token yet
	auth := s.router.Group("/api/v1/auth")
	{
		auth.POST("/register", s.handler.Register)
		auth.POST("/login", s.handler.Login)
	}

	// Account API - requires a session token
	account := s.router.Group("/api/v1")
	account.Use(JWTAuthMiddleware(s.cfg.JWT.SecretKey))
	account.Use(RateLimitMiddleware(sessionRateLimiter))
	{
		account.POST("/auth/logout", s.handler.Logout)

		account.GET("/account", s.handler.GetAccount)
		account.GET("/account/next-action", s.handler.GetNextAction)
		account.GET("/plans", s.handler.GetPlans)

		// Storefront flow: stage → pay (mock) → deployed
		account.POST("/installation/checkout", s.handler.StartCheckout)
		account.POST("/checkout/pay", s.handler.ConfirmPayment)

		// Deploys hit the provisioner, so they get the stricter limiter
		account.POST("/installation/deploy", RateLimitMiddleware(deployRateLimiter), s.handler.Deploy)
		account.DELETE("/installation", s.handler.DeleteInstallation)
		account.POST("/installation/refresh", s.handler.RefreshInstallation)
		account.POST("/installation/analytics/refresh", s.handler.RefreshAnalytics)
		account.GET("/installation/status", s.handler.GetInstallationStatus)
		account.POST("/installation/restart", s.handler.RestartInstallation)

		account.GET("/billing/invoices", s.handler.GetInvoices)
	}
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
