// Package enrichit provides a client for the EnrichIt contact-data API:
// synchronous person search plus asynchronous phone reveals delivered
// to a webhook.
package enrichit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.enrichit.io/v2"

// Client defines the EnrichIt operations.
type Client interface {
	// SearchPeople finds contacts at a company.
	SearchPeople(ctx context.Context, req PersonSearchRequest) (*PersonSearchResponse, error)

	// RequestReveal asks the provider to deliver a contact's phone number
	// to the webhook URL. The call returns once the request is accepted;
	// delivery is asynchronous.
	RequestReveal(ctx context.Context, req RevealRequest) error
}

// PersonSearchRequest searches contacts at one company.
type PersonSearchRequest struct {
	Company    string   `json:"company"`
	Website    string   `json:"website,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	MaxResults int      `json:"maxResults,omitempty"`
}

// Person is one contact returned by a search.
type Person struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Position    string   `json:"position"`
	Email       string   `json:"email"`
	LinkedInURL string   `json:"linkedinUrl"`
	Verified    bool     `json:"verified"`
	Sources     []string `json:"sources"`
}

// PersonSearchResponse is the response from POST /people/search.
type PersonSearchResponse struct {
	People []Person `json:"people"`
	Total  int      `json:"total"`
}

// RevealRequest asks for asynchronous phone delivery.
type RevealRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Company    string `json:"company"`
	WebhookURL string `json:"webhookUrl"`
}

// WebhookPayload is the body the provider POSTs to the webhook URL when
// a reveal completes.
type WebhookPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an EnrichIt API client. The default http.Client
// carries no timeout of its own; the per-request context owns the
// deadline, so the configured contact budget applies in full.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchPeople(ctx context.Context, req PersonSearchRequest) (*PersonSearchResponse, error) {
	respBody, status, err := c.post(ctx, "/people/search", req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("enrichit: search unexpected status %d: %s", status, string(respBody))
	}

	var result PersonSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "enrichit: unmarshal search response")
	}
	return &result, nil
}

func (c *httpClient) RequestReveal(ctx context.Context, req RevealRequest) error {
	respBody, status, err := c.post(ctx, "/people/reveal", req)
	if err != nil {
		return err
	}
	if status != http.StatusAccepted && status != http.StatusOK {
		return eris.Errorf("enrichit: reveal unexpected status %d: %s", status, string(respBody))
	}
	return nil
}

func (c *httpClient) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "enrichit: marshal %s request", path)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, eris.Wrapf(err, "enrichit: create %s request", path)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "enrichit: send %s request", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "enrichit: read %s response", path)
	}
	return respBody, resp.StatusCode, nil
}
