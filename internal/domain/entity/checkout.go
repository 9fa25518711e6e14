package entity

// CheckoutModeSubscription is the only mode the relay requests.
const CheckoutModeSubscription = "subscription"

// Billing period tags sent by the pricing page. Metadata only.
const (
	BillingPeriodMonthly = "monthly"
	BillingPeriodYearly  = "yearly"
)

// CheckoutSession is the provider's hosted checkout page. The relay never
// stores it and only hands URL back to the browser.
type CheckoutSession struct {
	ID       string
	URL      string
	Mode     string
	Metadata map[string]string
}
