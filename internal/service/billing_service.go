package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/wenwu/saas-platform/storefront-service/internal/models"
)

// BillingService derives the mock billing history shown on the billing page.
// Invoices are synthesized from the installation's payment timestamps; there
// is no payment processor behind this.
type BillingService struct {
	accounts *AccountService
}

func NewBillingService(accounts *AccountService) *BillingService {
	return &BillingService{accounts: accounts}
}

// Invoices returns up to three monthly invoices ending at the last payment.
// A user that never paid has no history.
func (b *BillingService) Invoices() []models.Invoice {
	inst := b.accounts.Installation()

	stamp := inst.LastPayment
	if stamp == "" {
		stamp = inst.CreatedAt
	}
	if stamp == "" {
		return []models.Invoice{}
	}

	base, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		base = time.Now().UTC()
	}

	price := models.FindPlan(inst.PlanID).PriceMonthly

	invoices := make([]models.Invoice, 0, 3)
	for i := 0; i < 3; i++ {
		date := base.AddDate(0, 0, -30*i)
		invoices = append(invoices, models.Invoice{
			ID:     "INV-" + uuid.New().String()[:8],
			Date:   date.Format("2006-01-02"),
			Amount: price,
			Status: "paid",
		})
	}
	return invoices
}
