package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/truthdriving/driving_school/configs"
)

// ErrProviderUnavailable marks a transport-level failure talking to
// Stripe (timeout, connection refused). Callers may retry; the server
// never retries on its own.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

// CheckoutSession is the slice of Stripe's checkout session object this
// service reads back. Metadata carries everything reconciliation needs,
// snapshotted at checkout-creation time.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent string            `json:"payment_intent"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

func (s *CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == "paid"
}

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
}

func apiBase() string {
	if base := config.Config("STRIPE_API_BASE_URL"); base != "" {
		return base
	}
	return "https://api.stripe.com"
}

func doStripeRequest(method, path string, form url.Values) (*CheckoutSession, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, apiBase()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+config.Config("STRIPE_SECRET_KEY"))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stripe request failed, status %d: %s", resp.StatusCode, string(respBody))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode stripe response: %v", err)
	}
	return &session, nil
}

// CheckoutParams describes one package purchase. Metadata must include the
// user and package identity so reconciliation never has to trust the
// client.
type CheckoutParams struct {
	PackageName        string
	PackageDescription string
	AmountCents        int64
	Metadata           map[string]string
}

// CreateCheckoutSession opens a hosted Stripe Checkout session and returns
// its id and redirect URL.
func CreateCheckoutSession(params CheckoutParams) (*CheckoutSession, error) {
	frontendURL := config.Config("FRONTEND_URL")

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", "cad")
	form.Set("line_items[0][price_data][product_data][name]", params.PackageName)
	if params.PackageDescription != "" {
		form.Set("line_items[0][price_data][product_data][description]", params.PackageDescription)
	}
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", frontendURL+"/payment-success?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", frontendURL+"/payment-cancelled")
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	return doStripeRequest("POST", "/v1/checkout/sessions", form)
}

// RetrieveCheckoutSession fetches the authoritative session state from
// Stripe. Read-only, safe to poll.
func RetrieveCheckoutSession(sessionID string) (*CheckoutSession, error) {
	return doStripeRequest("GET", "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
}
