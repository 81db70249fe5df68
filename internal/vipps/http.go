package vipps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Credentials holds the merchant credentials for the eComm API.
type Credentials struct {
	ClientID                     string
	ClientSecret                 string
	SubscriptionKeyAuthorization string
	SubscriptionKeyPayment       string
	SerialNumber                 string
}

// HTTPClient implements Client against the eComm v2 REST API.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a Client talking to the given API base URL.
func NewHTTPClient(baseURL string, creds Credentials) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		creds:      creds,
	}
}

type apiError struct {
	ErrorCode    json.Number `json:"errorCode"`
	ErrorMessage string      `json:"errorMessage"`
}

type transactionRequest struct {
	MerchantInfo struct {
		MerchantSerialNumber string `json:"merchantSerialNumber"`
	} `json:"merchantInfo"`
	Transaction struct {
		OrderID         string `json:"orderId"`
		TransactionText string `json:"transactionText"`
		Amount          int64  `json:"amount,omitempty"`
	} `json:"transaction"`
}

// InitiatePayment implements Client.
func (c *HTTPClient) InitiatePayment(ctx context.Context, remoteID string, amountMinor int64, description, callbackURL, returnURL string, opts InitiateOptions) (*InitiateResult, error) {
	body := map[string]any{
		"merchantInfo": map[string]any{
			"merchantSerialNumber": c.creds.SerialNumber,
			"callbackPrefix":       callbackURL,
			"fallBack":             returnURL,
			"authToken":            opts.AuthToken,
		},
		"transaction": map[string]any{
			"orderId":         remoteID,
			"amount":          amountMinor,
			"transactionText": description,
		},
	}
	merchantInfo := body["merchantInfo"].(map[string]any)
	if opts.PaymentType != "" {
		merchantInfo["paymentType"] = opts.PaymentType
	}
	if opts.ShippingDetailsPrefix != "" {
		merchantInfo["shippingDetailsPrefix"] = opts.ShippingDetailsPrefix
	}
	if opts.ConsentRemovalPrefix != "" {
		merchantInfo["consentRemovalPrefix"] = opts.ConsentRemovalPrefix
	}
	if len(opts.StaticShippingDetails) > 0 {
		merchantInfo["staticShippingDetails"] = opts.StaticShippingDetails
	}

	var result InitiateResult
	if err := c.do(ctx, http.MethodPost, "/ecomm/v2/payments", body, &result); err != nil {
		return nil, err
	}
	result.OrderID = remoteID
	return &result, nil
}

// GetOrderStatus implements Client.
func (c *HTTPClient) GetOrderStatus(ctx context.Context, remoteID string) (string, error) {
	var result struct {
		TransactionInfo TransactionInfo `json:"transactionInfo"`
	}
	path := fmt.Sprintf("/ecomm/v2/payments/%s/status", remoteID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return "", err
	}
	return result.TransactionInfo.Status, nil
}

// GetPaymentDetails implements Client.
func (c *HTTPClient) GetPaymentDetails(ctx context.Context, remoteID string) (*PaymentDetails, error) {
	var details PaymentDetails
	path := fmt.Sprintf("/ecomm/v2/payments/%s/details", remoteID)
	if err := c.do(ctx, http.MethodGet, path, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// CapturePayment implements Client.
func (c *HTTPClient) CapturePayment(ctx context.Context, remoteID, text string, amountMinor int64) error {
	req := newTransactionRequest(c.creds.SerialNumber, remoteID, text, amountMinor)
	path := fmt.Sprintf("/ecomm/v2/payments/%s/capture", remoteID)
	return c.do(ctx, http.MethodPost, path, req, nil)
}

// CancelPayment implements Client.
func (c *HTTPClient) CancelPayment(ctx context.Context, remoteID, text string) error {
	req := newTransactionRequest(c.creds.SerialNumber, remoteID, text, 0)
	path := fmt.Sprintf("/ecomm/v2/payments/%s/cancel", remoteID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

// RefundPayment implements Client.
func (c *HTTPClient) RefundPayment(ctx context.Context, remoteID, text string, amountMinor int64) error {
	req := newTransactionRequest(c.creds.SerialNumber, remoteID, text, amountMinor)
	path := fmt.Sprintf("/ecomm/v2/payments/%s/refund", remoteID)
	return c.do(ctx, http.MethodPost, path, req, nil)
}

func newTransactionRequest(serialNumber, remoteID, text string, amountMinor int64) *transactionRequest {
	req := &transactionRequest{}
	req.MerchantInfo.MerchantSerialNumber = serialNumber
	req.Transaction.OrderID = remoteID
	req.Transaction.TransactionText = text
	req.Transaction.Amount = amountMinor
	return req
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.creds.SubscriptionKeyPayment)
	req.Header.Set("Merchant-Serial-Number", c.creds.SerialNumber)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	// The API reports errors as a single object or an array of objects.
	var apiErrs []apiError
	if err := json.Unmarshal(raw, &apiErrs); err != nil {
		var single apiError
		if err := json.Unmarshal(raw, &single); err == nil {
			apiErrs = []apiError{single}
		}
	}
	if len(apiErrs) > 0 {
		code, _ := apiErrs[0].ErrorCode.Int64()
		return &Error{Code: int(code), Message: apiErrs[0].ErrorMessage}
	}
	return fmt.Errorf("vipps: http %d: %s", resp.StatusCode, string(raw))
}

// token returns a cached access token, fetching a new one when expired.
func (c *HTTPClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/accesstoken/get", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("client_id", c.creds.ClientID)
	req.Header.Set("client_secret", c.creds.ClientSecret)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.creds.SubscriptionKeyAuthorization)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch access token: http %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresOn   string `json:"expires_on"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode access token: %w", err)
	}

	c.accessToken = tok.AccessToken
	// Tokens last an hour; refresh well before expiry rather than parsing
	// the epoch string.
	c.tokenExpiry = time.Now().Add(45 * time.Minute)
	return c.accessToken, nil
}
