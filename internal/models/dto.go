package models

// ==================== Provisioner API DTOs ====================

// InstallationInfo is the installation record as the provisioner reports it.
type InstallationInfo struct {
	Domain        string   `json:"domain"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at,omitempty"`
	Nameservers   []string `json:"nameservers,omitempty"`
	Username      string   `json:"username,omitempty"`
	MySQLPassword string   `json:"mysql_password,omitempty"`
	ContainerName string   `json:"container_name,omitempty"`
}

// DeployData is the payload of a successful deploy response. The MySQL
// password is only surfaced here; later GETs are not guaranteed to return it.
type DeployData struct {
	Domain        string   `json:"domain"`
	CreatedAt     string   `json:"created_at,omitempty"`
	WPAdminURL    string   `json:"wp_admin_url"`
	SiteURL       string   `json:"site_url"`
	Nameservers   []string `json:"nameservers,omitempty"`
	Username      string   `json:"username"`
	MySQLPassword string   `json:"mysql_password,omitempty"`
	ContainerName string   `json:"container_name,omitempty"`
}

// DeployRequest is sent to the provisioner to create a WordPress site.
type DeployRequest struct {
	Username string `json:"username"`
	Domain   string `json:"domain"`
	Email    string `json:"email"`
}

// GetInstallationResponse wraps a single-installation lookup.
type GetInstallationResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	Installation *InstallationInfo `json:"installation,omitempty"`
}

// ListInstallationsResponse wraps the list-all endpoint.
type ListInstallationsResponse struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message,omitempty"`
	Installations []InstallationInfo `json:"installations,omitempty"`
}

// DeployResponse wraps a deploy call.
type DeployResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    *DeployData `json:"data,omitempty"`
}

// AckResponse is the generic success/message acknowledgement the provisioner
// returns for delete, restart, credential and health calls.
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// StatusResponse wraps the status-only endpoint.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ==================== Storefront API DTOs ====================

// RegisterRequest creates the local (unverified) identity.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
}

// LoginRequest re-establishes the local identity. No password: the auth here
// is an explicit client-trusted mock.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AccountResponse is the dashboard snapshot of the current session.
type AccountResponse struct {
	User         *User        `json:"user,omitempty"`
	Installation Installation `json:"installation"`
	Loading      bool         `json:"loading"`
	LastError    string       `json:"last_error,omitempty"`
}

// CreateServerRequest starts a deployment for the authenticated user.
type CreateServerRequest struct {
	Domain string `json:"domain" binding:"required"`
	PlanID string `json:"plan_id"`
}

// ConfirmPaymentRequest completes the mock checkout.
type ConfirmPaymentRequest struct {
	Provider string `json:"provider"`
}

// Invoice is a mock billing-history line derived from the installation's
// payment timestamps.
type Invoice struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
}
