package stripe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL, secretKey string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  strings.TrimSpace(secretKey),
		httpClient: httpClient,
		log:        log.Named("payment.gateway.stripe"),
	}
}

func (c *Client) Provider() string {
	return "stripe"
}

// InitializeCheckout creates a hosted Checkout Session. The metadata is set
// on both the session and the payment intent so webhook deliveries for
// either object carry the local identifiers.
func (c *Client) InitializeCheckout(ctx context.Context, req *paymentdomain.CheckoutRequest) (*paymentdomain.CheckoutSession, error) {
	if req == nil {
		return nil, paymentdomain.ErrCheckoutFailed
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(req.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.PlanName)
	if strings.TrimSpace(req.Description) != "" {
		form.Set("line_items[0][price_data][product_data][description]", req.Description)
	}
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	if strings.TrimSpace(req.Email) != "" {
		form.Set("customer_email", req.Email)
	}
	form.Set("client_reference_id", req.Reference)

	meta := map[string]string{
		"paymentId": req.Metadata.PaymentID.String(),
		"schoolId":  req.Metadata.SchoolID.String(),
		"planId":    req.Metadata.PlanID.String(),
	}
	for key, value := range meta {
		form.Set("metadata["+key+"]", value)
		form.Set("payment_intent_data[metadata]["+key+"]", value)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var session checkoutSession
	if err := c.do(httpReq, &session); err != nil {
		return nil, err
	}
	if strings.TrimSpace(session.ID) == "" || strings.TrimSpace(session.URL) == "" {
		return nil, paymentdomain.ErrCheckoutFailed
	}

	return &paymentdomain.CheckoutSession{
		SessionID:        session.ID,
		Reference:        req.Reference,
		AuthorizationURL: session.URL,
	}, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, sessionID string) (*paymentdomain.TransactionResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, paymentdomain.ErrVerificationFailed
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	var session checkoutSession
	if err := c.do(httpReq, &session); err != nil {
		return nil, err
	}

	return &paymentdomain.TransactionResult{
		Succeeded:     strings.EqualFold(session.PaymentStatus, "paid"),
		TransactionID: session.PaymentIntent,
		Amount:        session.AmountTotal,
		Currency:      strings.ToUpper(strings.TrimSpace(session.Currency)),
	}, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("stripe api error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", req.URL.Path),
		)
		return paymentdomain.ErrCheckoutFailed
	}
	return json.Unmarshal(body, out)
}

type checkoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}
