package entity

import "encoding/json"

// Recurring interval values accepted by the billing provider.
const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Product is a provider-owned catalog item. Prices hang off it.
type Product struct {
	ID          string `json:"id"`
	Object      string `json:"object"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// Recurring describes the billing cycle of a Price.
type Recurring struct {
	Interval      string `json:"interval"`
	IntervalCount int64  `json:"interval_count"`
}

// Price is immutable once created. UnitAmount is in minor currency units.
// ProductID is always set; Product only when the provider expanded it.
type Price struct {
	ID         string     `json:"id"`
	Object     string     `json:"object"`
	Active     bool       `json:"active"`
	Currency   string     `json:"currency"`
	UnitAmount int64      `json:"unit_amount"`
	Recurring  *Recurring `json:"recurring"`
	ProductID  string     `json:"-"`
	Product    *Product   `json:"product"`
}

// PriceList is one page of prices. Raw holds the provider's response body;
// when set it is what the list marshals to, so fields the typed view does not
// model survive the round trip.
type PriceList struct {
	Object  string          `json:"object"`
	URL     string          `json:"url"`
	HasMore bool            `json:"has_more"`
	Data    []*Price        `json:"data"`
	Raw     json.RawMessage `json:"-"`
}

func (l PriceList) MarshalJSON() ([]byte, error) {
	if len(l.Raw) > 0 {
		return l.Raw, nil
	}
	type typed PriceList
	return json.Marshal(typed(l))
}
