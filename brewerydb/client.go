package brewerydb

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the root of the BreweryDB API
const DefaultBaseURL = "http://brewerydb.com/api"

// Format is the response format requested from the API
type Format string

const (
	// FormatJSON requests and decodes JSON responses
	FormatJSON Format = "json"
	// FormatXML is sent to the API but the body is never decoded
	FormatXML Format = "xml"
)

// Args holds the query parameters of a single call. Values are strings,
// integers, floats or booleans. Empty strings are dropped before sending.
type Args map[string]any

// Client represents a BreweryDB API client.
//
// A Client remembers the URI, raw body and parsed body of its most recent
// call. It is not safe for concurrent use; use one Client per goroutine.
type Client struct {
	apiKey     string
	baseURL    string
	format     Format
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger

	lastRequestURI     *string
	lastRawResponse    *string
	lastParsedResponse any
}

// NewClient creates a new BreweryDB client. No request is made.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if options.format != FormatJSON && options.format != FormatXML {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidConfig, options.format)
	}

	baseURL := strings.TrimRight(options.baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(options.verifyCert)
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		format:     options.format,
		userAgent:  options.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// newHTTPClient builds the default transport. No timeout is set.
func newHTTPClient(verifyCert bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// SECURITY: peer verification is off unless WithTLSVerify is used.
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !verifyCert} //nolint:gosec
	return &http.Client{Transport: transport}
}

// Format returns the configured response format
func (c *Client) Format() Format {
	return c.format
}

// request runs a single call against endpoint and records the last-call state
func (c *Client) request(ctx context.Context, endpoint string, args Args) (any, error) {
	c.lastRequestURI = nil
	c.lastRawResponse = nil
	c.lastParsedResponse = nil

	uri := c.baseURL + "/" + endpoint + "/?" + c.buildQuery(args).Encode()
	c.lastRequestURI = &uri

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", RedactURI(uri)).
		Msg("Making BreweryDB API request")

	body, err := c.get(ctx, uri)
	if err != nil {
		// net/http quotes the full URL in its errors
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = RedactURI(urlErr.URL)
		}
		msg := err.Error()
		c.lastRawResponse = &msg
		return nil, &TransportError{URI: RedactURI(uri), Err: err}
	}

	raw := string(body)
	c.lastRawResponse = &raw

	// XML bodies are kept raw only
	if c.format != FormatXML {
		c.lastParsedResponse = c.parse(body)
	}

	if msg, ok := errorMessage(c.lastParsedResponse); ok {
		c.logger.Warn().Str("endpoint", endpoint).Str("message", msg).Msg("BreweryDB returned an error")
		return nil, &ServiceError{Message: msg}
	}

	return c.lastParsedResponse, nil
}

// buildQuery merges the credentials into args and drops unset values.
// The caller's map is not modified.
func (c *Client) buildQuery(args Args) url.Values {
	merged := make(Args, len(args)+2)
	maps.Copy(merged, args)
	merged["apikey"] = c.apiKey
	merged["format"] = string(c.format)

	params := url.Values{}
	for key, value := range merged {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		params.Set(key, formatValue(value))
	}
	return params
}

// formatValue renders a scalar the way the API expects it; booleans become 1 or 0
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// get performs the GET request and returns the body whatever the status code
func (c *Client) get(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("Received BreweryDB response")

	return body, nil
}

// parse decodes body as JSON. A malformed body yields nil.
func (c *Client) parse(body []byte) any {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Debug().Err(err).Msg("BreweryDB response is not valid JSON")
		return nil
	}
	return parsed
}

// errorMessage extracts the message of an error envelope, if there is one
func errorMessage(parsed any) (string, bool) {
	obj, ok := parsed.(map[string]any)
	if !ok {
		return "", false
	}
	envelope, ok := obj["error"].(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := envelope["message"]
	if !ok {
		return "", false
	}
	if s, ok := msg.(string); ok {
		return s, true
	}
	return fmt.Sprint(msg), true
}

// LastRequestURI returns the URI of the most recent call, including the API key.
// ok is false when no URI was built.
func (c *Client) LastRequestURI() (uri string, ok bool) {
	if c.lastRequestURI == nil {
		return "", false
	}
	return *c.lastRequestURI, true
}

// LastRawResponse returns the body of the most recent call, or the transport
// error text if the call failed before a body was read.
func (c *Client) LastRawResponse() (body string, ok bool) {
	if c.lastRawResponse == nil {
		return "", false
	}
	return *c.lastRawResponse, true
}

// LastParsedResponse returns the decoded body of the most recent call, or nil
func (c *Client) LastParsedResponse() any {
	return c.lastParsedResponse
}

// DecodeLast decodes the raw body of the most recent call into v
func (c *Client) DecodeLast(v any) error {
	if c.lastRawResponse == nil || c.lastParsedResponse == nil {
		return ErrNoResponse
	}
	if err := json.Unmarshal([]byte(*c.lastRawResponse), v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// RedactURI hides the apikey query parameter of uri
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	q := u.Query()
	if q.Get("apikey") == "" {
		return uri
	}
	q.Set("apikey", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
