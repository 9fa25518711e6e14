package entity

import (
	"encoding/json"
	"time"
)

// Event types the relay reacts to. Anything else is accepted and logged.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventInvoicePaymentSucceeded  = "invoice.payment_succeeded"
	EventInvoicePaymentFailed     = "invoice.payment_failed"
)

// WebhookEvent is a verified provider event. Object holds data.object
// untouched so branches can decode only what they need.
type WebhookEvent struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Created  time.Time       `json:"created"`
	Livemode bool            `json:"livemode"`
	Object   json.RawMessage `json:"object"`
}
