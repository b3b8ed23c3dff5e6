package brewerydb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a stub BreweryDB server that answers every request with the same body
type recorder struct {
	status int
	body   string
	hits   int
	last   *http.Request
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec.hits++
	rec.last = r
	if rec.status != 0 {
		w.WriteHeader(rec.status)
	}
	w.Write([]byte(rec.body))
}

func (rec *recorder) query() url.Values {
	return rec.last.URL.Query()
}

func newTestClient(t *testing.T, rec *recorder, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL + "/api")}, opts...)
	client, err := NewClient("test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		apiKey  string
		opts    []Option
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			apiKey: "test-key",
		},
		{
			name:    "missing API key",
			apiKey:  "",
			wantErr: true,
			errMsg:  "API key is required",
		},
		{
			name:   "xml format accepted",
			apiKey: "test-key",
			opts:   []Option{WithFormat(FormatXML)},
		},
		{
			name:    "unknown format",
			apiKey:  "test-key",
			opts:    []Option{WithFormat("yaml")},
			wantErr: true,
			errMsg:  "unsupported format",
		},
		{
			name:    "empty base URL",
			apiKey:  "test-key",
			opts:    []Option{WithBaseURL("/")},
			wantErr: true,
			errMsg:  "base URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.apiKey, logger, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.apiKey, client.apiKey)
			assert.Equal(t, DefaultBaseURL, client.baseURL)
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("test-key", zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, client.Format())
	assert.Zero(t, client.httpClient.Timeout)

	transport, ok := client.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)

	client, err = NewClient("test-key", zerolog.Nop(), WithTLSVerify())
	require.NoError(t, err)
	transport = client.httpClient.Transport.(*http.Transport)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)

	custom := &http.Client{}
	client, err = NewClient("test-key", zerolog.Nop(), WithHTTPClient(custom))
	require.NoError(t, err)
	assert.Same(t, custom, client.httpClient)
}

func TestNoStateBeforeFirstCall(t *testing.T) {
	client, err := NewClient("test-key", zerolog.Nop())
	require.NoError(t, err)

	_, ok := client.LastRequestURI()
	assert.False(t, ok)
	_, ok = client.LastRawResponse()
	assert.False(t, ok)
	assert.Nil(t, client.LastParsedResponse())
	assert.ErrorIs(t, client.DecodeLast(&BreweriesResponse{}), ErrNoResponse)
}

func TestBuildQuery(t *testing.T) {
	client, err := NewClient("test-key", zerolog.Nop())
	require.NoError(t, err)

	args := Args{
		"empty":  "",
		"zero":   0,
		"false":  false,
		"true":   true,
		"name":   "pale ale",
		"unset":  nil,
		"lat":    35.7796,
		"page64": int64(3),
		"apikey": "caller-key",
		"format": "xml",
	}

	params := client.buildQuery(args)

	assert.NotContains(t, params, "empty")
	assert.NotContains(t, params, "unset")
	assert.Equal(t, "0", params.Get("zero"))
	assert.Equal(t, "0", params.Get("false"))
	assert.Equal(t, "1", params.Get("true"))
	assert.Equal(t, "pale ale", params.Get("name"))
	assert.Equal(t, "35.7796", params.Get("lat"))
	assert.Equal(t, "3", params.Get("page64"))
	assert.Equal(t, "test-key", params.Get("apikey"))
	assert.Equal(t, "json", params.Get("format"))

	// caller's map is left alone
	assert.Equal(t, "caller-key", args["apikey"])
	assert.Contains(t, args, "empty")
}

func TestRequestInjectsCredentials(t *testing.T) {
	rec := &recorder{body: `{"status":"success"}`}
	client := newTestClient(t, rec)

	_, err := client.request(context.Background(), "beers", Args{"apikey": "other", "format": "xml", "q": ""})
	require.NoError(t, err)

	q := rec.query()
	assert.Equal(t, "test-key", q.Get("apikey"))
	assert.Equal(t, "json", q.Get("format"))
	assert.NotContains(t, q, "q")

	uri, ok := client.LastRequestURI()
	require.True(t, ok)
	assert.Contains(t, uri, "/api/beers/?")
	assert.Contains(t, uri, "apikey=test-key")
}

func TestGetBreweryURI(t *testing.T) {
	rec := &recorder{body: `{"data":{"id":42,"name":"Test Brewing"},"status":"success"}`}
	client := newTestClient(t, rec)

	parsed, err := client.GetBrewery(context.Background(), 42, true)
	require.NoError(t, err)

	assert.Equal(t, "/api/breweries/42/", rec.last.URL.Path)

	uri, ok := client.LastRequestURI()
	require.True(t, ok)
	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(u.Path, "/breweries/42/"))
	assert.Equal(t, "1", u.Query().Get("metadata"))
	assert.NotContains(t, u.Query(), "since")

	obj, ok := parsed.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "success", obj["status"])
	assert.Equal(t, parsed, client.LastParsedResponse())
}

func TestServiceError(t *testing.T) {
	const body = `{"error":{"message":"bad key"}}`

	calls := map[string]func(c *Client) (any, error){
		"ListBreweries": func(c *Client) (any, error) {
			return c.ListBreweries(context.Background(), ListBreweriesParams{})
		},
		"GetBrewery": func(c *Client) (any, error) {
			return c.GetBrewery(context.Background(), 1, true)
		},
		"ListAllStyles": func(c *Client) (any, error) {
			return c.ListAllStyles(context.Background())
		},
		"Search": func(c *Client) (any, error) {
			return c.Search(context.Background(), SearchParams{Query: "ipa"})
		},
	}

	for _, status := range []int{http.StatusOK, http.StatusUnauthorized} {
		for name, call := range calls {
			t.Run(name+"/"+http.StatusText(status), func(t *testing.T) {
				client := newTestClient(t, &recorder{status: status, body: body})

				parsed, err := call(client)
				require.Error(t, err)
				assert.Nil(t, parsed)

				var svcErr *ServiceError
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, "bad key", svcErr.Message)
				assert.ErrorIs(t, err, ErrService)
				assert.Equal(t, "brewerydb service error: bad key", err.Error())

				raw, ok := client.LastRawResponse()
				require.True(t, ok)
				assert.Equal(t, body, raw)
				assert.NotNil(t, client.LastParsedResponse())
			})
		}
	}
}

func TestErrorWithoutMessageIsNotServiceError(t *testing.T) {
	client := newTestClient(t, &recorder{body: `{"error":"plain string"}`})

	parsed, err := client.ListAllGlassware(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, parsed)
}

func TestMalformedJSON(t *testing.T) {
	client := newTestClient(t, &recorder{body: "not json"})

	parsed, err := client.ListAllCategories(context.Background())
	require.NoError(t, err)
	assert.Nil(t, parsed)

	raw, ok := client.LastRawResponse()
	require.True(t, ok)
	assert.Equal(t, "not json", raw)
	assert.Nil(t, client.LastParsedResponse())
	assert.ErrorIs(t, client.DecodeLast(&CategoriesResponse{}), ErrNoResponse)
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL + "/api"
	server.Close()

	client, err := NewClient("super-secret-key", zerolog.Nop(), WithBaseURL(baseURL))
	require.NoError(t, err)

	parsed, err := client.GetStyle(context.Background(), 3)
	require.Error(t, err)
	assert.Nil(t, parsed)
	assert.NotContains(t, err.Error(), "super-secret-key")
	assert.Contains(t, err.Error(), "apikey=REDACTED")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, transportErr.URI, "apikey=REDACTED")
	assert.NotContains(t, transportErr.URI, "super-secret-key")

	uri, ok := client.LastRequestURI()
	require.True(t, ok)
	assert.Contains(t, uri, "/api/styles/3/?")
	assert.Contains(t, uri, "apikey=super-secret-key")

	raw, ok := client.LastRawResponse()
	require.True(t, ok)
	assert.Equal(t, transportErr.Err.Error(), raw)
	assert.NotContains(t, raw, "super-secret-key")
	assert.Nil(t, client.LastParsedResponse())
}

func TestLastCallStateIsReset(t *testing.T) {
	rec := &recorder{body: `{"data":[],"status":"success"}`}
	client := newTestClient(t, rec)

	_, err := client.ListAllStyles(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client.LastParsedResponse())

	rec.body = "<html>maintenance</html>"
	_, err = client.GetCategory(context.Background(), 9)
	require.NoError(t, err)

	assert.Nil(t, client.LastParsedResponse())
	raw, _ := client.LastRawResponse()
	assert.Equal(t, "<html>maintenance</html>", raw)
	uri, _ := client.LastRequestURI()
	assert.Contains(t, uri, "/categories/9/")
}

func TestXMLFormatIsNotDecoded(t *testing.T) {
	rec := &recorder{body: `{"error":{"message":"ignored"}}`}
	client := newTestClient(t, rec, WithFormat(FormatXML))

	parsed, err := client.ListAllStyles(context.Background())
	require.NoError(t, err)
	assert.Nil(t, parsed)
	assert.Equal(t, "xml", rec.query().Get("format"))

	raw, ok := client.LastRawResponse()
	require.True(t, ok)
	assert.Equal(t, rec.body, raw)
}

func TestUserAgent(t *testing.T) {
	rec := &recorder{body: `{}`}
	client := newTestClient(t, rec, WithUserAgent("brewdb-test/1.0"))

	_, err := client.ListAllGlassware(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "brewdb-test/1.0", rec.last.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", rec.last.Header.Get("Accept"))
}

func TestDecodeLast(t *testing.T) {
	rec := &recorder{body: `{
		"currentPage": 1,
		"numberOfPages": 3,
		"totalResults": 120,
		"status": "success",
		"data": [
			{"id": 1, "name": "Hoppy", "abv": "6.8", "ibu": 55},
			{"id": 2, "name": "Dark", "abv": 9.1, "ibu": ""}
		]
	}`}
	client := newTestClient(t, rec)

	_, err := client.ListAllBeers(context.Background(), PageParams{})
	require.NoError(t, err)

	var beers BeersResponse
	require.NoError(t, client.DecodeLast(&beers))
	assert.True(t, beers.HasMorePages())
	require.Len(t, beers.Data, 2)
	assert.Equal(t, "Hoppy", beers.Data[0].Name)
	assert.InDelta(t, 6.8, float64(beers.Data[0].ABV), 0.0001)
	assert.InDelta(t, 55, float64(beers.Data[0].IBU), 0.0001)
	assert.InDelta(t, 9.1, float64(beers.Data[1].ABV), 0.0001)
	assert.Zero(t, beers.Data[1].IBU)
}

func TestNumberRejectsGarbage(t *testing.T) {
	var n Number
	err := n.UnmarshalJSON([]byte(`"strong"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number")
}

func TestRedactURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "key redacted",
			uri:  "http://brewerydb.com/api/beers/?apikey=secret&format=json",
			want: "http://brewerydb.com/api/beers/?apikey=REDACTED&format=json",
		},
		{
			name: "no key",
			uri:  "http://brewerydb.com/api/beers/?format=json",
			want: "http://brewerydb.com/api/beers/?format=json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactURI(tt.uri))
		})
	}
}

func TestErrorTypes(t *testing.T) {
	underlying := errors.New("connection refused")
	transportErr := &TransportError{URI: "http://example", Err: underlying}
	assert.ErrorIs(t, transportErr, underlying)
	assert.Equal(t, "brewerydb transport error: connection refused", transportErr.Error())

	valErr := &ValidationError{Field: "type", Reason: "bad"}
	assert.Equal(t, "invalid type: bad", valErr.Error())
	assert.NotErrorIs(t, valErr, ErrService)
}
