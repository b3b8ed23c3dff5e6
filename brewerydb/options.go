package brewerydb

import "net/http"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	format     Format
	httpClient *http.Client
	userAgent  string
	verifyCert bool
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL: DefaultBaseURL,
		format:  FormatJSON,
	}
}

// WithBaseURL points the client at another API root, e.g. a mirror or a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithFormat sets the response format requested from the API.
// FormatXML is accepted but responses are not decoded.
func WithFormat(format Format) Option {
	return func(o *clientOptions) {
		o.format = format
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
// The TLS settings of the given client are left untouched.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithTLSVerify turns certificate verification back on.
func WithTLSVerify() Option {
	return func(o *clientOptions) {
		o.verifyCert = true
	}
}
