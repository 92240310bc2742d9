package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
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
		log:        log.Named("payment.gateway.paystack"),
	}
}

func (c *Client) Provider() string {
	return "paystack"
}

func (c *Client) InitializeCheckout(ctx context.Context, req *paymentdomain.CheckoutRequest) (*paymentdomain.CheckoutSession, error) {
	if req == nil {
		return nil, paymentdomain.ErrCheckoutFailed
	}

	body, err := json.Marshal(initializeRequest{
		Amount:      req.Amount,
		Email:       req.Email,
		Reference:   req.Reference,
		Currency:    req.Currency,
		CallbackURL: req.SuccessURL,
		Metadata: checkoutMetadata{
			PaymentID: req.Metadata.PaymentID.String(),
			SchoolID:  req.Metadata.SchoolID.String(),
			PlanID:    req.Metadata.PlanID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	var resp initializeResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	if !resp.Status || strings.TrimSpace(resp.Data.AuthorizationURL) == "" {
		c.log.Warn("paystack checkout initialization rejected", zap.String("message", resp.Message))
		return nil, paymentdomain.ErrCheckoutFailed
	}

	return &paymentdomain.CheckoutSession{
		SessionID:        resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
		AuthorizationURL: resp.Data.AuthorizationURL,
	}, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*paymentdomain.TransactionResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, paymentdomain.ErrVerificationFailed
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	var resp verifyResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, paymentdomain.ErrVerificationFailed
	}

	return &paymentdomain.TransactionResult{
		Succeeded:     strings.EqualFold(resp.Data.Status, "success"),
		TransactionID: fmt.Sprintf("%d", resp.Data.ID),
		Amount:        resp.Data.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(resp.Data.Currency)),
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
		c.log.Warn("paystack api error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", req.URL.Path),
		)
		return paymentdomain.ErrCheckoutFailed
	}
	return json.Unmarshal(body, out)
}

type initializeRequest struct {
	Amount      int64            `json:"amount"`
	Email       string           `json:"email"`
	Reference   string           `json:"reference"`
	Currency    string           `json:"currency,omitempty"`
	CallbackURL string           `json:"callback_url,omitempty"`
	Metadata    checkoutMetadata `json:"metadata"`
}

type checkoutMetadata struct {
	PaymentID string `json:"paymentId"`
	SchoolID  string `json:"schoolId"`
	PlanID    string `json:"planId"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID       int64  `json:"id"`
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}
