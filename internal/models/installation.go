package models

import (
	"fmt"
	"strings"
)

// Status is the installation lifecycle state shown to the user.
type Status string

const (
	StatusNone            Status = "none"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusAwaitingDNS     Status = "awaiting_dns"
	StatusLive            Status = "live"
)

// ParseStatus converts a raw string into a Status. Unknown values are
// rejected so consumers can match exhaustively.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNone, StatusAwaitingPayment, StatusAwaitingDNS, StatusLive:
		return Status(s), nil
	}
	return StatusNone, fmt.Errorf("unknown installation status %q", s)
}

// Registrar constants. A fresh record points at OVH; anything touched by the
// provisioner is managed through Cloudflare.
const (
	RegistrarOVH        = "OVH"
	RegistrarCloudflare = "Cloudflare"
)

// User is the authenticated identity. Client-trusted: nothing here is
// verified beyond basic normalization.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProvisionerUsername derives the username used by the provisioner API from
// the user's email (the part before the @).
func (u *User) ProvisionerUsername() string {
	return UsernameFromEmail(u.Email)
}

// UsernameFromEmail returns the local part of an email address.
func UsernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// Analytics holds client-generated mock metrics for the dashboard.
type Analytics struct {
	Visitors7d  int     `json:"visitors_7d"`
	Uptime30d   float64 `json:"uptime_30d"`
	LastChecked string  `json:"last_checked,omitempty"`
}

// Installation is the per-user WordPress deployment record. At most one
// exists per user; an undeployed user holds the default record from
// NewInstallation.
type Installation struct {
	Domain          string    `json:"domain"`
	PlanID          string    `json:"plan_id"`
	Status          Status    `json:"status"`
	CreatedAt       string    `json:"created_at,omitempty"`
	LastPayment     string    `json:"last_payment,omitempty"`
	SiteURL         string    `json:"site_url,omitempty"`
	WPAdminURL      string    `json:"wp_admin_url,omitempty"`
	Registrar       string    `json:"registrar,omitempty"`
	PaymentProvider string    `json:"payment_provider,omitempty"`
	Nameservers     []string  `json:"nameservers"`
	Username        string    `json:"username,omitempty"`
	MySQLPassword   string    `json:"mysql_password,omitempty"`
	ContainerName   string    `json:"container_name,omitempty"`
	Analytics       Analytics `json:"analytics"`
}

// NewInstallation returns the initial empty record for a user that has never
// deployed.
func NewInstallation() Installation {
	return Installation{
		Domain:      "",
		PlanID:      "basic",
		Status:      StatusNone,
		Registrar:   RegistrarOVH,
		Nameservers: []string{},
		Analytics:   Analytics{Visitors7d: 0, Uptime30d: 99.9},
	}
}

// SiteURLFor derives the public site URL for a domain.
func SiteURLFor(domain string) string {
	return "https://" + domain
}

// WPAdminURLFor derives the wp-admin URL for a domain.
func WPAdminURLFor(domain string) string {
	return "https://" + domain + "/wp-admin"
}

// ReplaceFromRemote overwrites the record wholesale from a provisioner GET
// response. Only a remote status of "active" maps to live; every other value
// means the site is not serving yet and the record shows none.
func (inst *Installation) ReplaceFromRemote(remote *InstallationInfo) {
	status := StatusNone
	if remote.Status == "active" {
		status = StatusLive
	}

	*inst = Installation{
		Domain:        remote.Domain,
		PlanID:        "basic",
		Status:        status,
		CreatedAt:     remote.CreatedAt,
		LastPayment:   remote.CreatedAt,
		SiteURL:       SiteURLFor(remote.Domain),
		WPAdminURL:    WPAdminURLFor(remote.Domain),
		Registrar:     RegistrarCloudflare,
		Nameservers:   orEmpty(remote.Nameservers),
		Username:      remote.Username,
		MySQLPassword: remote.MySQLPassword,
		ContainerName: remote.ContainerName,
		Analytics:     Analytics{Visitors7d: 0, Uptime30d: 99.9},
	}
}

// ApplyDeploy overwrites the record wholesale from a successful deploy
// response. The site is provisioned but DNS still has to be pointed at us.
func (inst *Installation) ApplyDeploy(planID string, data *DeployData) {
	*inst = Installation{
		Domain:        data.Domain,
		PlanID:        planID,
		Status:        StatusAwaitingDNS,
		CreatedAt:     data.CreatedAt,
		LastPayment:   data.CreatedAt,
		SiteURL:       data.SiteURL,
		WPAdminURL:    data.WPAdminURL,
		Registrar:     RegistrarCloudflare,
		Nameservers:   orEmpty(data.Nameservers),
		Username:      data.Username,
		MySQLPassword: data.MySQLPassword,
		ContainerName: data.ContainerName,
		Analytics:     Analytics{Visitors7d: 0, Uptime30d: 99.9},
	}
}

// MergeFromRemote folds a provisioner GET response into the existing record.
// Distinct from ReplaceFromRemote on purpose: a refresh only ever touches the
// domain, the two derived URLs, the nameservers and the MySQL password.
// Status, plan and analytics are never modified here.
func (inst *Installation) MergeFromRemote(remote *InstallationInfo) {
	if remote.Domain != "" {
		inst.Domain = remote.Domain
	}
	inst.SiteURL = SiteURLFor(remote.Domain)
	inst.WPAdminURL = WPAdminURLFor(remote.Domain)
	if len(remote.Nameservers) > 0 {
		inst.Nameservers = remote.Nameservers
	}
	if remote.MySQLPassword != "" {
		inst.MySQLPassword = remote.MySQLPassword
	}
}

// Action is the primary call-to-action for a given status.
type Action struct {
	Label       string `json:"label"`
	Destination string `json:"destination"`
}

// NextAction maps the installation status to the storefront's primary
// call-to-action. live points at the site itself.
func NextAction(status Status, siteURL string) Action {
	switch status {
	case StatusAwaitingPayment:
		return Action{Label: "Finish payment", Destination: "/checkout"}
	case StatusAwaitingDNS:
		return Action{Label: "Configure DNS", Destination: "/confirmation"}
	case StatusLive:
		return Action{Label: "Open site", Destination: siteURL}
	case StatusNone:
	}
	return Action{Label: "Create your server", Destination: "/create"}
}

func orEmpty(ns []string) []string {
	if ns == nil {
		return []string{}
	}
	return ns
}
