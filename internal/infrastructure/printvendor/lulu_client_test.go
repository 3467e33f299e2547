package printvendor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamseason/backend/internal/domain/print"
)

// newTestClient wires a LuluClient against httptest servers for the
// auth and API endpoints
func newTestClient(t *testing.T, apiHandler http.HandlerFunc) (*LuluClient, *atomic.Int64) {
	t.Helper()

	var authCalls atomic.Int64
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "test-key", r.Form.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	}))
	t.Cleanup(authSrv.Close)

	apiSrv := httptest.NewServer(apiHandler)
	t.Cleanup(apiSrv.Close)

	client, err := NewLuluClient(&LuluConfig{
		APIBase:      apiSrv.URL,
		AuthURL:      authSrv.URL,
		ClientKey:    "test-key",
		ClientSecret: "test-secret",
	}, nil)
	require.NoError(t, err)

	return client, &authCalls
}

func TestNewLuluClient_RequiresCredentials(t *testing.T) {
	_, err := NewLuluClient(nil, nil)
	assert.Error(t, err)

	_, err = NewLuluClient(&LuluConfig{ClientKey: "k"}, nil)
	assert.Error(t, err)

	_, err = NewLuluClient(&LuluConfig{ClientSecret: "s"}, nil)
	assert.Error(t, err)
}

func TestGetAccessToken_CachedWithinValidity(t *testing.T) {
	client, authCalls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"status":{"name":"CREATED"}}`))
	})

	ctx := t.Context()
	tok1, err := client.getAccessToken(ctx)
	require.NoError(t, err)
	tok2, err := client.getAccessToken(ctx)
	require.NoError(t, err)

	assert.Equal(t, tok1, tok2)
	assert.Equal(t, int64(1), authCalls.Load(), "second call within validity must not hit the auth endpoint")
}

func TestGetAccessToken_RefreshesNearExpiry(t *testing.T) {
	client, authCalls := newTestClient(t, nil)

	ctx := t.Context()
	_, err := client.getAccessToken(ctx)
	require.NoError(t, err)

	// Force the cached token inside the expiry margin
	client.mu.Lock()
	client.session.expiresAt = time.Now().Add(10 * time.Second)
	client.mu.Unlock()

	_, err = client.getAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), authCalls.Load())
}

func TestGetAccessToken_BadCredentials(t *testing.T) {
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	t.Cleanup(authSrv.Close)

	client, err := NewLuluClient(&LuluConfig{
		APIBase:      "http://unused.invalid",
		AuthURL:      authSrv.URL,
		ClientKey:    "bad",
		ClientSecret: "bad",
	}, nil)
	require.NoError(t, err)

	_, err = client.getAccessToken(t.Context())
	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))
}

func TestSubmitOrder(t *testing.T) {
	var gotPayload printJobPayload
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, printJobsPath, r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":4211,"external_id":"ts_abc123def456","status":{"name":"CREATED"}}`))
	})

	order, err := client.SubmitOrder(t.Context(), SubmitOrderRequest{
		ExternalID:   "ts_abc123def456",
		InteriorURL:  "https://cdn.example.com/interior.pdf",
		CoverURL:     "https://cdn.example.com/cover.pdf",
		PodPackageID: "0750X0750FCPRECW080CW444MXX",
		Title:        "Thunder SC Season Book",
		Shipping: print.ShippingAddress{
			Name: "Sam Doe", Email: "sam@example.com",
			Street: "1 Main St", City: "Portland", State: "OR", Zip: "97201",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4211), order.ID)
	assert.Equal(t, "CREATED", order.StatusName())

	assert.Equal(t, "ts_abc123def456", gotPayload.ExternalID)
	require.Len(t, gotPayload.LineItems, 1)
	li := gotPayload.LineItems[0]
	assert.Equal(t, "ts_abc123def456", li.ExternalID)
	assert.Equal(t, 1, li.Quantity)
	assert.Equal(t, "MAIL", li.ShippingLevel)
	assert.Equal(t, "https://cdn.example.com/interior.pdf", li.PrintableNormalization.Interior.SourceURL)
	assert.Equal(t, "https://cdn.example.com/cover.pdf", li.PrintableNormalization.Cover.SourceURL)
	assert.Equal(t, "US", gotPayload.ShippingAddress.CountryCode)
	assert.Equal(t, "OR", gotPayload.ShippingAddress.StateCode)
}

func TestSubmitOrder_DuplicateExternalID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"external_id":["print job with this external id already exists"]}`))
	})

	_, err := client.SubmitOrder(t.Context(), SubmitOrderRequest{ExternalID: "ts_dup"})
	require.Error(t, err)
	assert.True(t, IsDuplicateOrder(err))
	assert.False(t, IsTransient(err))
	assert.False(t, IsAuthFailure(err))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"server error is transient", http.StatusInternalServerError, IsTransient},
		{"bad gateway is transient", http.StatusBadGateway, IsTransient},
		{"unauthorized is auth", http.StatusUnauthorized, IsAuthFailure},
		{"forbidden is auth", http.StatusForbidden, IsAuthFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"detail":"nope"}`))
			})

			_, err := client.GetOrderStatus(t.Context(), "4211")
			require.Error(t, err)
			assert.True(t, tt.check(err))

			var ve *VendorError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.status, ve.StatusCode)
			assert.Contains(t, ve.Body, "nope")
		})
	}
}

func TestGetOrderStatus_Tracking(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, printJobsPath+"4211/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 4211,
			"status": {"name": "SHIPPED"},
			"line_items": [{"external_id": "ts_abc", "tracking": {"id": "1Z999", "url": "https://track.example.com/1Z999"}}],
			"estimated_shipping_dates": {"arrival_min": "2026-09-10", "arrival_max": "2026-09-15"}
		}`))
	})

	order, err := client.GetOrderStatus(t.Context(), "4211")
	require.NoError(t, err)

	tracking := order.FirstTracking()
	require.NotNil(t, tracking)
	assert.Equal(t, "1Z999", tracking.ID)
	assert.Equal(t, "2026-09-10", order.EstimatedShippingDates.ArrivalMin)
}

func TestCancelOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, printJobsPath+"4211/", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, client.CancelOrder(t.Context(), "4211"))
}

func TestEstimateShipping(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, costCalculationsPath, r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		items := payload["line_items"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, float64(24), items[0].(map[string]any)["page_count"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total_cost_incl_tax": "43.17",
			"total_tax": "3.18",
			"shipping_cost": {"total_cost_incl_tax": "5.99"},
			"currency": "USD"
		}`))
	})

	estimate, err := client.EstimateShipping(t.Context(), ShippingEstimateRequest{
		PageCount:    24,
		PodPackageID: "0750X0750FCPRECW080CW444MXX",
		State:        "OR",
		Zip:          "97201",
	})
	require.NoError(t, err)

	assert.True(t, estimate.TotalCostInclTax.Equal(decimal.RequireFromString("43.17")))
	assert.True(t, estimate.ShippingCost.TotalCostInclTax.Equal(decimal.RequireFromString("5.99")))
	assert.Equal(t, "USD", estimate.Currency)
}
