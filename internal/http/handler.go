package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wenwu/saas-platform/storefront-service/internal/client"
	"github.com/wenwu/saas-platform/storefront-service/internal/models"
	"github.com/wenwu/saas-platform/storefront-service/internal/service"
)

type Handler struct {
	accounts    *service.AccountService
	billing     *service.BillingService
	provisioner *client.ProvisionerClient
	jwtSecret   string
}

func NewHandler(accounts *service.AccountService, billing *service.BillingService, provisioner *client.ProvisionerClient, jwtSecret string) *Handler {
	return &Handler{
		accounts:    accounts,
		billing:     billing,
		provisioner: provisioner,
		jwtSecret:   jwtSecret,
	}
}

// ==================== Auth Handlers ====================

// Register creates the local identity and opens a session. No verification:
// whatever email the client claims is the account.
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = models.UsernameFromEmail(email)
	}

	user := &models.User{Email: email, Name: name}
	h.accounts.SetAuth(c.Request.Context(), user)

	token, err := IssueToken(h.jwtSecret, user.Email, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: *user})
}

// Login re-establishes a session for an email. Same trust model as Register.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := &models.User{Email: email, Name: models.UsernameFromEmail(email)}
	h.accounts.SetAuth(c.Request.Context(), user)

	token, err := IssueToken(h.jwtSecret, user.Email, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: *user})
}

// Logout clears the local session. The remote installation is untouched.
func (h *Handler) Logout(c *gin.Context) {
	h.accounts.SetAuth(c.Request.Context(), nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// requireSession ensures the service has an active user. The JWT middleware
// already gated the route; this catches tokens that outlived a logout.
func (h *Handler) requireSession(c *gin.Context) *models.User {
	user := h.accounts.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return nil
	}
	return user
}

// ==================== Account Handlers ====================

// GetAccount returns the dashboard snapshot.
func (h *Handler) GetAccount(c *gin.Context) {
	if h.requireSession(c) == nil {
		return
	}
	c.JSON(http.StatusOK, h.accounts.Snapshot())
}

// GetNextAction returns the primary call-to-action for the current status.
func (h *Handler) GetNextAction(c *gin.Context) {
	if h.requireSession(c) == nil {
		return
	}
	c.JSON(http.StatusOK, h.accounts.NextAction())
}

// GetPlans returns the fixed plan catalog.
func (h *Handler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": models.Plans(), "default_nameservers": models.DefaultNameservers})
}

// ==================== Installation Handlers ====================

// StartCheckout stages a domain and plan for payment.
func (h *Handler) StartCheckout(c *gin.Context) {
	if h.requireSession(c) == nil {
		return
	}

	var req models.CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.StartCheckout(req.Domain, req.PlanID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "installation": h.accounts.Installation()})
}

// ConfirmPayment completes the mock checkout.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	if h.requireSession(c) == nil {
		return
	}

	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.ConfirmPayment(req.Provider); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "installation": h.accounts.Installation()})
}

// Deploy provisions the WordPress site for the current user. One
// installation per user is enforced here at the edge; the account service
// itself carries no such constraint.
func (h *Handler) Deploy(c *gin.Context) {
	user := h.requireSession(c)
	if user == nil {
		return
	}

	if status := h.accounts.Installation().Status; status != models.StatusNone && status != models.StatusAwaitingPayment {
		c.JSON(http.StatusConflict, gin.H{"error": "an installation already exists", "status": status})
		return
	}

	var req models.CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.Deploy(c.Request.Context(), req.Domain, user.Email, req.PlanID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "installation": h.accounts.Installation()})
}

// DeleteInstallation removes the remote installation and resets local state.
func (h *Handler) DeleteInstallation(c *gin.Context) {
	if h.requireSession(c) == nil {
		return
	}

	if err := h.accounts.Delete(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RefreshInstallation re-syncs the refreshable fields from the provisioner.
// Always succeeds from the caller's point of view.
func (h *Handler) RefreshInstallation(c *gin.Context) {
	if h.requireSession(c) == nil {
		return
	}

	h.accounts.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "installation": h.accounts.Installation()})
}

// RefreshAnalytics regenerates the mock dashboard metrics.
func (h *Handler) RefreshAnalytics(c *gin.Context) {
	if h.requireSession(c) == nil {
		return
	}

	h.accounts.RefreshAnalytics(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "installation": h.accounts.Installation()})
}

// GetInstallationStatus proxies the status-only endpoint for the current user.
func (h *Handler) GetInstallationStatus(c *gin.Context) {
	user := h.requireSession(c)
	if user == nil {
		return
	}

	resp, err := h.provisioner.GetStatus(c.Request.Context(), user.ProvisionerUsername())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RestartInstallation restarts the container behind the user's site.
func (h *Handler) RestartInstallation(c *gin.Context) {
	user := h.requireSession(c)
	if user == nil {
		return
	}

	resp, err := h.provisioner.Restart(c.Request.Context(), user.ProvisionerUsername())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ==================== Billing Handlers ====================

// GetInvoices returns the mock billing history.
func (h *Handler) GetInvoices(c *gin.Context) {
	if h.requireSession(c) == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": h.billing.Invoices()})
}

// ==================== Provisioner Health ====================

// ProvisionerHealth reports whether the deployment backend is reachable and
// its DNS credentials are valid.
func (h *Handler) ProvisionerHealth(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.provisioner.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusOK, gin.H{"reachable": false, "error": err.Error()})
		return
	}

	credentials := true
	if _, err := h.provisioner.VerifyCredentials(ctx); err != nil {
		credentials = false
	}

	c.JSON(http.StatusOK, gin.H{"reachable": true, "credentials_valid": credentials})
}
