package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	"go.uber.org/zap"
)

type recordedRequest struct {
	method         string
	path           string
	form           map[string]string
	query          map[string]string
	idempotencyKey string
}

// fakeStripe answers a small subset of the Stripe REST API.
type fakeStripe struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]func(w http.ResponseWriter)
}

func newFakeStripe(t *testing.T) (*fakeStripe, *httptest.Server) {
	t.Helper()
	f := &fakeStripe{routes: make(map[string]func(w http.ResponseWriter))}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeStripe) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	rec := recordedRequest{
		method:         r.Method,
		path:           r.URL.Path,
		form:           make(map[string]string),
		query:          make(map[string]string),
		idempotencyKey: r.Header.Get("Idempotency-Key"),
	}
	for k := range r.PostForm {
		rec.form[k] = r.PostForm.Get(k)
	}
	for k := range r.URL.Query() {
		rec.query[k] = r.URL.Query().Get(k)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	handler, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Unrecognized request URL"}}`))
		return
	}
	handler(w)
}

func (f *fakeStripe) on(method, path string, status int, body interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = func(w http.ResponseWriter) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (f *fakeStripe) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeStripe) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestProvider(srv *httptest.Server) *StripeProvider {
	return NewStripeProvider(Options{
		SecretKey:  "sk_test_123",
		Timeout:    5 * time.Second,
		BackendURL: srv.URL,
	}, zap.NewNop())
}

func TestStripeProvider_CreateCheckoutSession(t *testing.T) {
	fake, srv := newFakeStripe(t)
	fake.on(http.MethodPost, "/v1/checkout/sessions", http.StatusOK, map[string]interface{}{
		"id":       "cs_test_1",
		"object":   "checkout.session",
		"url":      "https://checkout.stripe.com/c/pay/cs_test_1",
		"mode":     "subscription",
		"metadata": map[string]string{"planName": "Pro", "billingPeriod": "monthly"},
	})
	p := newTestProvider(srv)

	sess, err := p.CreateCheckoutSession(context.Background(), &provider.CreateCheckoutSessionRequest{
		PriceID:    "price_123",
		SuccessURL: "http://localhost:5173?success=true&plan=Pro",
		CancelURL:  "http://localhost:5173?canceled=true",
		Metadata:   map[string]string{"planName": "Pro", "billingPeriod": "monthly"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)
	assert.Equal(t, "subscription", sess.Mode)

	req := fake.last()
	assert.Equal(t, "price_123", req.form["line_items[0][price]"])
	assert.Equal(t, "1", req.form["line_items[0][quantity]"])
	assert.Equal(t, "subscription", req.form["mode"])
	assert.Equal(t, "card", req.form["payment_method_types[0]"])
	assert.Equal(t, "http://localhost:5173?success=true&plan=Pro", req.form["success_url"])
	assert.Equal(t, "http://localhost:5173?canceled=true", req.form["cancel_url"])
	assert.Equal(t, "Pro", req.form["metadata[planName]"])
	assert.Equal(t, "monthly", req.form["metadata[billingPeriod]"])
}

func TestStripeProvider_CreateCheckoutSession_IdempotencyKey(t *testing.T) {
	fake, srv := newFakeStripe(t)
	fake.on(http.MethodPost, "/v1/checkout/sessions", http.StatusOK, map[string]interface{}{
		"id":  "cs_test_2",
		"url": "https://checkout.stripe.com/c/pay/cs_test_2",
	})
	p := newTestProvider(srv)

	_, err := p.CreateCheckoutSession(context.Background(), &provider.CreateCheckoutSessionRequest{
		PriceID:        "price_123",
		IdempotencyKey: "order-42",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-42", fake.last().idempotencyKey)
}

func TestStripeProvider_CallSurvivesCallerCancellation(t *testing.T) {
	fake, srv := newFakeStripe(t)
	fake.on(http.MethodPost, "/v1/checkout/sessions", http.StatusOK, map[string]interface{}{
		"id":  "cs_test_3",
		"url": "https://checkout.stripe.com/c/pay/cs_test_3",
	})
	p := newTestProvider(srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess, err := p.CreateCheckoutSession(ctx, &provider.CreateCheckoutSessionRequest{PriceID: "price_123"})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_3", sess.ID)
}

func TestStripeProvider_ProviderErrorKeepsMessage(t *testing.T) {
	fake, srv := newFakeStripe(t)
	fake.on(http.MethodPost, "/v1/checkout/sessions", http.StatusBadRequest, map[string]interface{}{
		"error": map[string]string{
			"type":    "invalid_request_error",
			"code":    "resource_missing",
			"message": "No such price: 'price_bad'",
		},
	})
	p := newTestProvider(srv)

	_, err := p.CreateCheckoutSession(context.Background(), &provider.CreateCheckoutSessionRequest{PriceID: "price_bad"})
	require.Error(t, err)

	var providerErr *provider.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "No such price: 'price_bad'", providerErr.Message)
	assert.Equal(t, "resource_missing", providerErr.Code)
	assert.Equal(t, http.StatusBadRequest, providerErr.StatusCode)
	assert.Equal(t, 1, fake.count(), "failed calls are not retried")
}

func TestStripeProvider_CreateProductAndPrice(t *testing.T) {
	fake, srv := newFakeStripe(t)
	fake.on(http.MethodPost, "/v1/products", http.StatusOK, map[string]interface{}{
		"id":          "prod_1",
		"object":      "product",
		"name":        "TrendLoop Starter Monthly",
		"description": "Perfect for small businesses",
		"active":      true,
	})
	fake.on(http.MethodPost, "/v1/prices", http.StatusOK, map[string]interface{}{
		"id":          "price_1",
		"object":      "price",
		"active":      true,
		"currency":    "usd",
		"unit_amount": 9900,
		"product":     "prod_1",
		"recurring":   map[string]interface{}{"interval": "month", "interval_count": 1},
	})
	p := newTestProvider(srv)
	ctx := context.Background()

	prod, err := p.CreateProduct(ctx, &provider.CreateProductRequest{
		Name:        "TrendLoop Starter Monthly",
		Description: "Perfect for small businesses",
	})
	require.NoError(t, err)
	assert.Equal(t, "prod_1", prod.ID)
	assert.Equal(t, "TrendLoop Starter Monthly", fake.last().form["name"])
	assert.Equal(t, "Perfect for small businesses", fake.last().form["description"])

	price, err := p.CreatePrice(ctx, &provider.CreatePriceRequest{
		ProductID:  prod.ID,
		UnitAmount: 9900,
		Currency:   "usd",
		Interval:   "month",
	})
	require.NoError(t, err)
	assert.Equal(t, "price_1", price.ID)
	assert.Equal(t, int64(9900), price.UnitAmount)
	assert.Equal(t, "prod_1", price.ProductID)
	assert.Nil(t, price.Product, "unexpanded product is not rendered")
	require.NotNil(t, price.Recurring)
	assert.Equal(t, "month", price.Recurring.Interval)

	req := fake.last()
	assert.Equal(t, "prod_1", req.form["product"])
	assert.Equal(t, "9900", req.form["unit_amount"])
	assert.Equal(t, "usd", req.form["currency"])
	assert.Equal(t, "month", req.form["recurring[interval]"])
}

func TestStripeProvider_ListPrices(t *testing.T) {
	fake, srv := newFakeStripe(t)
	fake.on(http.MethodGet, "/v1/prices", http.StatusOK, map[string]interface{}{
		"object":   "list",
		"url":      "/v1/prices",
		"has_more": true,
		"data": []map[string]interface{}{
			{
				"id":          "price_1",
				"object":      "price",
				"active":      true,
				"currency":    "usd",
				"unit_amount": 19900,
				"recurring":   map[string]interface{}{"interval": "month", "interval_count": 1},
				"product": map[string]interface{}{
					"id":     "prod_1",
					"object": "product",
					"name":   "TrendLoop Professional Monthly",
					"active": true,
				},
			},
		},
	})
	p := newTestProvider(srv)

	list, err := p.ListPrices(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "list", list.Object)
	assert.True(t, list.HasMore)
	require.Len(t, list.Data, 1)
	require.NotNil(t, list.Data[0].Product)
	assert.Equal(t, "TrendLoop Professional Monthly", list.Data[0].Product.Name)

	req := fake.last()
	assert.Equal(t, "100", req.query["limit"])
	assert.Equal(t, "data.product", req.query["expand[0]"])
	assert.Equal(t, 1, fake.count(), "only the first page is fetched")
}

func TestStripeProvider_ListPricesKeepsProviderFields(t *testing.T) {
	fake, srv := newFakeStripe(t)
	fake.on(http.MethodGet, "/v1/prices", http.StatusOK, map[string]interface{}{
		"object":   "list",
		"url":      "/v1/prices",
		"has_more": false,
		"data": []map[string]interface{}{
			{
				"id":          "price_1",
				"object":      "price",
				"active":      true,
				"currency":    "usd",
				"unit_amount": 9900,
				"nickname":    "Starter monthly",
				"lookup_key":  "starter_monthly",
				"created":     1700000000,
				"livemode":    false,
				"type":        "recurring",
				"metadata":    map[string]string{"tier": "starter"},
				"product": map[string]interface{}{
					"id":       "prod_1",
					"object":   "product",
					"name":     "TrendLoop Starter Monthly",
					"metadata": map[string]string{"tier": "starter"},
				},
			},
		},
	})
	p := newTestProvider(srv)

	list, err := p.ListPrices(context.Background(), 100)
	require.NoError(t, err)

	out, err := json.Marshal(list)
	require.NoError(t, err)

	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out, &body))
	require.Len(t, body.Data, 1)

	price := body.Data[0]
	for _, field := range []string{"nickname", "lookup_key", "created", "livemode", "type", "metadata"} {
		assert.Contains(t, price, field)
	}
	assert.Equal(t, "Starter monthly", price["nickname"])

	product := price["product"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"tier": "starter"}, product["metadata"])
	assert.NotContains(t, product, "active", "absent provider fields are not invented")
}

func TestStripeProvider_GetProviderName(t *testing.T) {
	p := NewStripeProvider(Options{SecretKey: "sk_test_123"}, zap.NewNop())
	assert.Equal(t, "stripe", p.GetProviderName())
}
