package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/go-querystring/query"
	"github.com/hashicorp/go-cleanhttp"
)

// BaseURL is the Cloudflare v4 API endpoint.
const BaseURL = "https://api.cloudflare.com/client/v4"

// apiClient implements the Client interface against the Cloudflare v4 REST API
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a new Cloudflare client using API token
func NewClient(apiToken string) (Client, error) {
	return NewClientWithBaseURL(apiToken, BaseURL)
}

// NewClientWithBaseURL creates a client against an alternate API endpoint.
// Used by tests to point the client at a local server.
func NewClientWithBaseURL(apiToken, baseURL string) (Client, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("cloudflare: API token is required")
	}

	return &apiClient{
		baseURL: baseURL,
		token:   apiToken,
		http:    cleanhttp.DefaultPooledClient(),
	}, nil
}

// envelope is the response wrapper every v4 endpoint returns.
type envelope struct {
	Success bool            `json:"success"`
	Errors  []ResponseError `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// ResponseError is a single error entry from the v4 response envelope.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APIError is returned whenever the API answers with a status other than 200.
// Only 200 counts as success; no alternate success codes are recognized.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Errors     []ResponseError
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("request failure: %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	for _, apiErr := range e.Errors {
		msg += fmt.Sprintf(" (%d: %s)", apiErr.Code, apiErr.Message)
	}
	return msg
}

// doRequest builds and executes one request against the API, returning the
// decoded result payload from the response envelope.
func (c *apiClient) doRequest(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cloudflare: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: read response: %w", err)
	}

	var env envelope
	if resp.StatusCode != http.StatusOK {
		// Best effort: surface the envelope errors when the body has any.
		_ = json.Unmarshal(respBody, &env)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Errors:     env.Errors,
		}
	}

	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("cloudflare: decode response envelope: %w", err)
	}

	return env.Result, nil
}

// ListZones returns all zones accessible by the client
func (c *apiClient) ListZones(ctx context.Context) ([]Zone, error) {
	raw, err := c.doRequest(ctx, http.MethodGet, "/zones", nil)
	if err != nil {
		return nil, err
	}

	var zones []Zone
	if err := json.Unmarshal(raw, &zones); err != nil {
		return nil, fmt.Errorf("cloudflare: decode zones: %w", err)
	}

	return zones, nil
}

// ListDNSRecords returns all DNS records for a zone
func (c *apiClient) ListDNSRecords(ctx context.Context, zoneID string, filter DNSRecordFilter) ([]DNSRecord, error) {
	log.Printf("[CloudflareClient] ListDNSRecords START zoneID=%s", zoneID)

	path := "/zones/" + zoneID + "/dns_records"
	params, err := query.Values(filter)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: encode list filter: %w", err)
	}
	if qs := params.Encode(); qs != "" {
		path += "?" + qs
	}

	raw, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		log.Printf("[CloudflareClient] ListDNSRecords ERROR: %v", err)
		return nil, err
	}

	var records []DNSRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("cloudflare: decode dns records: %w", err)
	}
	log.Printf("[CloudflareClient] ListDNSRecords SUCCESS: found %d records", len(records))

	return records, nil
}

// CreateDNSRecord creates a new DNS record
func (c *apiClient) CreateDNSRecord(ctx context.Context, zoneID string, record DNSRecord) (*DNSRecord, error) {
	record.ID = "" // assigned by the server
	raw, err := c.doRequest(ctx, http.MethodPost, "/zones/"+zoneID+"/dns_records", record)
	if err != nil {
		return nil, err
	}

	var created DNSRecord
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("cloudflare: decode created record: %w", err)
	}

	return &created, nil
}

// UpdateDNSRecord updates an existing DNS record
func (c *apiClient) UpdateDNSRecord(ctx context.Context, zoneID, recordID string, record DNSRecord) (*DNSRecord, error) {
	record.ID = recordID
	raw, err := c.doRequest(ctx, http.MethodPut, "/zones/"+zoneID+"/dns_records/"+recordID, record)
	if err != nil {
		return nil, err
	}

	var updated DNSRecord
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("cloudflare: decode updated record: %w", err)
	}

	return &updated, nil
}

// DeleteDNSRecord deletes a DNS record
func (c *apiClient) DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/zones/"+zoneID+"/dns_records/"+recordID, nil)
	return err
}
