package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
)

const (
	searchPath  = "/flight-search/family-tree/price-group"
	pricingPath = "/v1/shopping/flight-offers/pricing"

	clientRefHeader = "ama-client-ref"
	defaultTimeout  = 30 * time.Second
)

// Client talks to the upstream flight search and pricing API
type Client struct {
	searchBaseURL  string
	pricingBaseURL string
	clientRef      string
	currency       string
	httpClient     *http.Client
}

// Options configures a Client
type Options struct {
	SearchBaseURL  string
	PricingBaseURL string
	ClientRef      string
	CurrencyCode   string
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// NewClient creates a provider client
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	currency := opts.CurrencyCode
	if currency == "" {
		currency = "AUD"
	}
	pricingBase := opts.PricingBaseURL
	if pricingBase == "" {
		pricingBase = opts.SearchBaseURL
	}
	return &Client{
		searchBaseURL:  strings.TrimRight(opts.SearchBaseURL, "/"),
		pricingBaseURL: strings.TrimRight(pricingBase, "/"),
		clientRef:      opts.ClientRef,
		currency:       currency,
		httpClient:     httpClient,
	}
}

// Search runs a flight search and returns the raw provider payload
func (c *Client) Search(ctx context.Context, q models.SearchQuery) (*models.SearchPayload, error) {
	body := c.searchRequest(q)

	var payload models.SearchPayload
	headers := map[string]string{clientRefHeader: c.clientRef}
	if err := c.post(ctx, c.searchBaseURL+searchPath, headers, body, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		payload.Data = []models.RawOffer{}
	}
	return &payload, nil
}

// Price confirms the current price of a raw offer
func (c *Client) Price(ctx context.Context, offer models.RawOffer) (*models.PriceOfferResult, error) {
	body := pricingRequest{
		Data: pricingRequestData{
			Type:                  "flight-offers-pricing",
			FlightOffers:          []models.RawOffer{offer},
			AdditionalInformation: map[string]bool{"fareRules": true},
		},
	}

	var resp pricingResponse
	headers := map[string]string{"Accept": "application/json, application/vnd.amadeus+json"}
	if err := c.post(ctx, c.pricingBaseURL+pricingPath, headers, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data.FlightOffers) == 0 {
		return nil, fmt.Errorf("provider: pricing response has no offers")
	}

	priced := resp.Data.FlightOffers[0]
	total, ok := priced.Price.GrandTotal.Float()
	if !ok {
		total, ok = priced.Price.Total.Float()
	}
	if !ok {
		return nil, fmt.Errorf("provider: pricing response has no total")
	}
	return &models.PriceOfferResult{
		Total:             total,
		Currency:          priced.Price.Currency,
		LastTicketingDate: priced.LastTicketingDate,
	}, nil
}

// post sends a JSON body and decodes the JSON response into dest
func (c *Client) post(ctx context.Context, url string, headers map[string]string, body, dest any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("provider: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("provider: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, raw)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("provider: decoding response: %w", err)
	}
	return nil
}
