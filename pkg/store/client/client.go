package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

type Option func(*options)

type options struct {
	transport http.RoundTripper
	metrics   *Metrics
}

// WithTransport replaces the pooled default transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithMetrics instruments every request.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func New(profile domain.APIProfile, opts ...Option) (*Client, error) {
	if profile.BaseURL == "" {
		return nil, fmt.Errorf("profile %q has no base_url", profile.Name)
	}
	base, err := url.Parse(profile.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base_url for profile %q: %w", profile.Name, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base_url for profile %q must be absolute: %s", profile.Name, profile.BaseURL)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	transport := o.transport
	if transport == nil {
		transport = cleanhttp.DefaultPooledTransport()
	}
	if o.metrics != nil {
		transport = o.metrics.Instrument(transport)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   profile.Timeout,
		},
	}, nil
}

func (c *Client) ListCountries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := c.do(ctx, http.MethodGet, c.endpoint(nil, "data", "countries"), nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (c *Client) ListIndicators(ctx context.Context) ([]Indicator, error) {
	var indicators []Indicator
	if err := c.do(ctx, http.MethodGet, c.endpoint(nil, "data", "indicators"), nil, &indicators); err != nil {
		return nil, err
	}
	return indicators, nil
}

func (c *Client) ListObservations(ctx context.Context, q ObservationQuery) ([]Observation, error) {
	params := url.Values{}
	params.Set("country_code", q.CountryCode)
	params.Set("indicator_code", q.IndicatorCode)
	params.Set("start_date", q.Start.Format(domain.DateLayout))
	params.Set("end_date", q.End.Format(domain.DateLayout))

	var observations []Observation
	if err := c.do(ctx, http.MethodGet, c.endpoint(params, "data", "data_points"), nil, &observations); err != nil {
		return nil, err
	}
	return observations, nil
}

func (c *Client) SubmitQuery(ctx context.Context, query string) (*QueryResponse, error) {
	var resp QueryResponse
	err := c.do(ctx, http.MethodPost, c.endpoint(nil, "query", "natural_language"), QueryRequest{Query: query}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TriggerCollection(ctx context.Context, source CollectionSource) (*CollectionResponse, error) {
	var resp CollectionResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint(nil, "collection", string(source)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health hits the service root, which lives outside the api prefix.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	root := *c.baseURL
	root.Path = "/health"
	root.RawPath = ""
	root.RawQuery = ""
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, &root, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) endpoint(params url.Values, elem ...string) *url.URL {
	u := c.baseURL.JoinPath(elem...)
	if params != nil {
		u.RawQuery = params.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method string, endpoint *url.URL, body any, out any) error {
	logger := zerolog.Ctx(ctx)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", endpoint.Path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("path", endpoint.Path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, endpoint.Path, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint.Path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{
			Method:     method,
			Path:       endpoint.Path,
			StatusCode: resp.StatusCode,
			Body:       string(payload),
		}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint.Path, err)
	}
	return nil
}
