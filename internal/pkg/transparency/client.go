package transparency

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/payroll-transparency/internal/config"
)

const personnelPath = "/epublica-portal/rest/itajai/api/v1/pessoal"

// maxBodyBytes bounds a single personnel response.
const maxBodyBytes = 256 << 20

// Client reads personnel snapshots from the municipal transparency portal.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.TransparencyConfig) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		// The portal has served an incomplete certificate chain.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
}

// APIError is a non-2xx answer from the portal.
type APIError struct {
	StatusCode int
	Reference  string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("transparency API error [%d] for %s: %s", e.StatusCode, e.Reference, e.Body)
}

// PersonnelURL builds the query URL of one reference month. unitCode 0 asks for every unit.
func (c *Client) PersonnelURL(reference string, unitCode int) string {
	q := url.Values{}
	q.Set("referencia", reference)
	q.Set("codigo_unidade", strconv.Itoa(unitCode))
	return c.baseURL + personnelPath + "?" + q.Encode()
}

// FetchPersonnel returns the raw personnel snapshot for reference (MM/YYYY).
func (c *Client) FetchPersonnel(ctx context.Context, reference string, unitCode int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PersonnelURL(reference, unitCode), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch personnel for %s: %w", reference, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read personnel for %s: %w", reference, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Reference: reference, Body: snippet}
	}

	return body, nil
}
