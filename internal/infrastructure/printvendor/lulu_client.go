// Package printvendor integrates the print-on-demand vendor API:
// OAuth2 session management, order submission, status, cancellation,
// and shipping estimates.
package printvendor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	printJobsPath        = "/v1/print-jobs/"
	costCalculationsPath = "/v1/print-job-cost-calculations/"
	defaultShippingLevel = "MAIL"
)

// session is the cached OAuth2 credential. It is shared process-wide
// by design: the token is not tied to any particular order.
type session struct {
	accessToken string
	expiresAt   time.Time
}

// LuluClient talks to the Lulu print API. The zero value is not
// usable; construct with NewLuluClient.
type LuluClient struct {
	config     *LuluConfig
	httpClient *http.Client
	logger     *zap.Logger

	// mu serializes token refresh so concurrent callers observing an
	// expired session wait for the one in-flight auth call instead of
	// stampeding the token endpoint
	mu      sync.Mutex
	session session
}

// NewLuluClient creates a new Lulu print API client
func NewLuluClient(config *LuluConfig, logger *zap.Logger) (*LuluClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	if logger == nil {
		logger = zap.NewNop()
	}

	return &LuluClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
		},
		logger: logger,
	}, nil
}

// getAccessToken returns a valid bearer token, re-authenticating via
// the client-credentials grant when the cached token is within the
// expiry margin. A cached valid token costs no HTTP call.
func (c *LuluClient) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.accessToken != "" && time.Now().Before(c.session.expiresAt.Add(-c.config.TokenExpiryMargin)) {
		return c.session.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.config.ClientKey},
		"client_secret": {c.config.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", &VendorError{Kind: ErrKindTransient, Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &VendorError{Kind: ErrKindTransient, Cause: fmt.Errorf("auth request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &VendorError{Kind: ErrKindTransient, Cause: fmt.Errorf("reading auth response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		kind := classify(resp.StatusCode)
		// The token endpoint rejecting the grant is a credential
		// problem regardless of the exact 4xx code
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			kind = ErrKindAuth
		}
		return "", &VendorError{Kind: kind, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", &VendorError{Kind: ErrKindTransient, Cause: fmt.Errorf("parsing auth response: %w", err)}
	}

	c.session = session{
		accessToken: token.AccessToken,
		expiresAt:   time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}

	c.logger.Debug("Vendor access token refreshed",
		zap.Time("expires_at", c.session.expiresAt))

	return c.session.accessToken, nil
}

// doRequest performs an authenticated JSON API call
func (c *LuluClient) doRequest(ctx context.Context, method, path string, payload any, out any) error {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("lulu: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.APIBase+path, body)
	if err != nil {
		return &VendorError{Kind: ErrKindTransient, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &VendorError{Kind: ErrKindTransient, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &VendorError{Kind: ErrKindTransient, Cause: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &VendorError{
			Kind:       classify(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("lulu: failed to parse response: %w", err)
		}
	}

	return nil
}

// SubmitOrder submits a print job referencing the two artifact URLs.
// The vendor deduplicates on ExternalID, so redelivered webhooks that
// reach this call twice cannot create two orders; callers should check
// IsDuplicateOrder on the returned error.
func (c *LuluClient) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*VendorOrder, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	country := req.Shipping.Country
	if country == "" {
		country = "US"
	}

	payload := printJobPayload{
		ContactEmail: req.Shipping.Email,
		ExternalID:   req.ExternalID,
		LineItems: []lineItemPayload{
			{
				ExternalID: req.ExternalID,
				PrintableNormalization: printableFiles{
					Cover:        sourceURL{SourceURL: req.CoverURL},
					Interior:     sourceURL{SourceURL: req.InteriorURL},
					PodPackageID: req.PodPackageID,
				},
				Quantity:      quantity,
				ShippingLevel: defaultShippingLevel,
				Title:         req.Title,
			},
		},
		ShippingAddress: addressPayload{
			Name:        req.Shipping.Name,
			Street1:     req.Shipping.Street,
			City:        req.Shipping.City,
			StateCode:   req.Shipping.State,
			Postcode:    req.Shipping.Zip,
			CountryCode: country,
			PhoneNumber: req.Shipping.Phone,
		},
	}

	var order VendorOrder
	if err := c.doRequest(ctx, http.MethodPost, printJobsPath, payload, &order); err != nil {
		return nil, err
	}

	c.logger.Info("Vendor order submitted",
		zap.Int64("vendor_order_id", order.ID),
		zap.String("external_id", req.ExternalID),
		zap.String("status", order.StatusName()))

	return &order, nil
}

// GetOrderStatus fetches a vendor order by its id
func (c *LuluClient) GetOrderStatus(ctx context.Context, vendorOrderID string) (*VendorOrder, error) {
	var order VendorOrder
	if err := c.doRequest(ctx, http.MethodGet, printJobsPath+vendorOrderID+"/", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels a vendor order. Only orders that have not
// entered production can be cancelled; later cancellations come back
// as a validation error from the vendor.
func (c *LuluClient) CancelOrder(ctx context.Context, vendorOrderID string) error {
	return c.doRequest(ctx, http.MethodDelete, printJobsPath+vendorOrderID+"/", nil, nil)
}

// EstimateShipping asks the vendor to price printing and shipping one
// book at the given page count
func (c *LuluClient) EstimateShipping(ctx context.Context, req ShippingEstimateRequest) (*ShippingEstimate, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	country := req.Country
	if country == "" {
		country = "US"
	}

	payload := map[string]any{
		"line_items": []map[string]any{
			{
				"page_count":     req.PageCount,
				"pod_package_id": req.PodPackageID,
				"quantity":       quantity,
			},
		},
		"shipping_address": map[string]any{
			"state_code":   req.State,
			"postcode":     req.Zip,
			"country_code": country,
		},
		"shipping_option": defaultShippingLevel,
	}

	var estimate ShippingEstimate
	if err := c.doRequest(ctx, http.MethodPost, costCalculationsPath, payload, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}
