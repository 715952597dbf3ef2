// Package billing holds the pricing catalog and the checkout flow.
package billing

// Plan is one pricing tier.
type Plan struct {
	ID string
	// Title and Features are display strings.
	Title    string
	Features []string
	// PriceCents is the monthly price in USD cents.
	PriceCents int64
	Pro        bool
}

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

var plans = []Plan{
	{
		ID:    PlanFree,
		Title: "مجانية",
		Features: []string{
			"5 استخدامات يومياً",
			"إعلانات محدودة",
			"وصول للأدوات الأساسية",
			"دعم فني عبر المجتمع",
		},
		PriceCents: 0,
	},
	{
		ID:    PlanPro,
		Title: "برو",
		Features: []string{
			"استخدام غير محدود",
			"بدون إعلانات",
			"وصول مبكر للميزات الجديدة",
			"دعم فني مباشر",
		},
		PriceCents: 500,
		Pro:        true,
	},
}

// Plans returns the pricing catalog in display order.
func Plans() []Plan {
	return plans
}

// PlanByID returns a plan by id.
func PlanByID(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
