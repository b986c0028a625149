package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/wenwu/saas-platform/storefront-service/internal/client"
	"github.com/wenwu/saas-platform/storefront-service/internal/models"
	"github.com/wenwu/saas-platform/storefront-service/internal/store"
)

// authState is the persisted auth blob. The wrapper keeps "no user" explicit
// in storage instead of deleting the key.
type authState struct {
	User *models.User `json:"user"`
}

// AccountService is the single source of truth for the current user and
// their installation record. Persistence and the provisioner client are
// injected; all state lives here, not in package globals.
//
// Operations deliberately do not serialize against each other's remote
// calls: a deploy and a delete racing each other resolve last-write-wins,
// same as the storefront UI they back.
type AccountService struct {
	store       store.Store
	provisioner *client.ProvisionerClient

	mu           sync.Mutex
	user         *models.User
	installation models.Installation
	loading      bool
	lastError    string
}

// NewAccountService restores any persisted session from the store. No remote
// call happens here; call ResumeSession after construction to reconcile with
// the provisioner.
func NewAccountService(st store.Store, provisioner *client.ProvisionerClient) *AccountService {
	s := &AccountService{
		store:        st,
		provisioner:  provisioner,
		installation: models.NewInstallation(),
	}

	var auth authState
	if st.Get(store.KeyAuth, &auth) {
		s.user = auth.User
	}

	key := store.KeyInstallation
	if s.user != nil {
		key = store.InstallationKeyFor(s.user.Email)
	}
	var inst models.Installation
	if st.Get(key, &inst) {
		s.installation = inst
	}

	return s
}

// ResumeSession re-runs the remote reconciliation for a restored user. A
// fresh process with no persisted user is a no-op.
func (s *AccountService) ResumeSession(ctx context.Context) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil {
		return
	}
	s.loadFromRemote(ctx, user)
}

// SetAuth replaces the current identity. A non-nil user swaps in that user's
// persisted installation (seeding the per-user slot from memory when absent)
// and then reconciles with the provisioner. A nil user logs out: local state
// is cleared, nothing remote is deleted.
func (s *AccountService) SetAuth(ctx context.Context, user *models.User) {
	s.mu.Lock()
	s.user = user
	s.store.Put(store.KeyAuth, authState{User: user})

	if user == nil {
		s.installation = models.NewInstallation()
		s.lastError = ""
		s.store.Put(store.KeyInstallation, s.installation)
		s.mu.Unlock()
		return
	}

	key := store.InstallationKeyFor(user.Email)
	var inst models.Installation
	if s.store.Get(key, &inst) {
		s.installation = inst
	} else {
		s.store.Put(key, s.installation)
	}
	s.mu.Unlock()

	s.loadFromRemote(ctx, user)
}

// loadFromRemote overwrites the local record wholesale from the provisioner.
// Any failure here, 404 included, means "no deployment yet" and leaves the
// local record untouched.
func (s *AccountService) loadFromRemote(ctx context.Context, user *models.User) {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.provisioner.GetInstallation(ctx, user.ProvisionerUsername())
	if err != nil {
		log.Printf("[AccountService] No installation found for %s: %v", user.ProvisionerUsername(), err)
		return
	}
	if resp.Installation == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.installation.ReplaceFromRemote(resp.Installation)
	s.persistLocked()
}

// StartCheckout stages a new installation for payment: the record gets the
// chosen domain and plan and moves to awaiting_payment. Refused when the
// user already has an installation in flight.
func (s *AccountService) StartCheckout(domain, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return fmt.Errorf("not signed in")
	}
	if s.installation.Status != models.StatusNone {
		return fmt.Errorf("an installation already exists (status: %s)", s.installation.Status)
	}

	d := models.NormalizeDomain(domain)
	if !models.IsValidDomain(d) {
		return fmt.Errorf("invalid domain %q (expected something like example.com)", domain)
	}

	s.installation.Domain = d
	s.installation.PlanID = models.FindPlan(planID).ID
	s.installation.Status = models.StatusAwaitingPayment
	s.persistLocked()
	return nil
}

// ConfirmPayment completes the mock checkout: awaiting_payment becomes
// awaiting_dns, the payment timestamp is stamped and the derived URLs and
// default nameservers are filled in if still empty. No money moves here.
func (s *AccountService) ConfirmPayment(provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return fmt.Errorf("not signed in")
	}
	if s.installation.Status == models.StatusNone {
		return fmt.Errorf("nothing to pay for")
	}
	if provider == "" {
		provider = "stripe"
	}

	inst := &s.installation
	inst.Status = models.StatusAwaitingDNS
	inst.LastPayment = time.Now().UTC().Format(time.RFC3339)
	inst.PaymentProvider = provider
	if inst.SiteURL == "" {
		inst.SiteURL = models.SiteURLFor(inst.Domain)
	}
	if inst.WPAdminURL == "" {
		inst.WPAdminURL = models.WPAdminURLFor(inst.Domain)
	}
	if len(inst.Nameservers) == 0 {
		inst.Nameservers = models.DefaultNameservers
	}
	s.persistLocked()
	return nil
}

// Deploy provisions a WordPress site for the current user. On success the
// record is replaced wholesale and sits in awaiting_dns until the user points
// their nameservers at us. Failures are surfaced to the caller so the UI can
// render them; a deploy that failed mid-flight may still have had server-side
// effect, and a later Refresh is the only reconciliation.
func (s *AccountService) Deploy(ctx context.Context, domain, email, planID string) error {
	s.mu.Lock()
	user := s.user
	if planID == "" {
		planID = s.installation.PlanID
	}
	s.mu.Unlock()

	if user == nil {
		return fmt.Errorf("not signed in")
	}

	d := models.NormalizeDomain(domain)
	if !models.IsValidDomain(d) {
		return fmt.Errorf("invalid domain %q (expected something like example.com)", domain)
	}
	if email == "" {
		email = user.Email
	}

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.provisioner.Deploy(ctx, user.ProvisionerUsername(), d, email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		return err
	}

	s.lastError = ""
	s.installation.ApplyDeploy(models.FindPlan(planID).ID, resp.Data)
	s.persistLocked()

	log.Printf("[AccountService] Deployed %s for %s, awaiting DNS", d, user.ProvisionerUsername())
	return nil
}

// Delete removes the remote installation and resets the local record. All or
// nothing: a remote failure leaves every local field exactly as it was.
func (s *AccountService) Delete(ctx context.Context) error {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil {
		return fmt.Errorf("not signed in")
	}

	s.setLoading(true)
	defer s.setLoading(false)

	_, err := s.provisioner.DeleteInstallation(ctx, user.ProvisionerUsername())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		return err
	}

	s.lastError = ""
	s.installation = models.NewInstallation()
	s.persistLocked()

	log.Printf("[AccountService] Installation deleted for %s", user.ProvisionerUsername())
	return nil
}

// Refresh re-fetches the remote record and merges the refreshable subset
// (domain, derived URLs, nameservers, MySQL password) into the local one.
// Never fails the caller: a refresh that cannot complete just logs.
func (s *AccountService) Refresh(ctx context.Context) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil {
		return
	}

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.provisioner.GetInstallation(ctx, user.ProvisionerUsername())
	if err != nil {
		log.Printf("[AccountService] Refresh failed: %v", err)
		return
	}
	if resp.Installation == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.installation.MergeFromRemote(resp.Installation)
	s.persistLocked()
}

// RefreshAnalytics runs a Refresh and then regenerates the mock dashboard
// metrics. The numbers are client-generated stand-ins, not monitoring data.
func (s *AccountService) RefreshAnalytics(ctx context.Context) {
	s.Refresh(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.installation.Analytics = models.Analytics{
		Visitors7d:  50 + rand.Intn(900),
		Uptime30d:   99.4 + rand.Float64()*0.6,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
	}
	s.persistLocked()
}

// Snapshot returns a copy of the current account state for the dashboard.
func (s *AccountService) Snapshot() models.AccountResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *models.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return models.AccountResponse{
		User:         user,
		Installation: s.installation,
		Loading:      s.loading,
		LastError:    s.lastError,
	}
}

// CurrentUser returns the authenticated user, or nil.
func (s *AccountService) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Installation returns a copy of the current record.
func (s *AccountService) Installation() models.Installation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installation
}

// NextAction maps the current status to the storefront's primary CTA.
func (s *AccountService) NextAction() models.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.NextAction(s.installation.Status, s.installation.SiteURL)
}

// persistLocked writes the installation under both the general key and the
// per-user key. Callers hold s.mu.
func (s *AccountService) persistLocked() {
	s.store.Put(store.KeyInstallation, s.installation)
	if s.user != nil {
		s.store.Put(store.InstallationKeyFor(s.user.Email), s.installation)
	}
}

func (s *AccountService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
