package batch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/brewdb/brewerydb"
)

func newServer(t *testing.T, inFlight, maxInFlight *int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inFlight != nil {
			n := atomic.AddInt32(inFlight, 1)
			defer atomic.AddInt32(inFlight, -1)
			for {
				peak := atomic.LoadInt32(maxInFlight)
				if n <= peak || atomic.CompareAndSwapInt32(maxInFlight, peak, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
		}

		id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/breweries/"), "/")
		if id == "13" {
			fmt.Fprint(w, `{"error":{"message":"brewery not found"}}`)
			return
		}
		fmt.Fprintf(w, `{"data":{"id":%s,"name":"Brewery %s"},"status":"success"}`, id, id)
	}))
	t.Cleanup(server.Close)
	return server
}

func factory(baseURL string, created *int32) ClientFactory {
	return func() (*brewerydb.Client, error) {
		atomic.AddInt32(created, 1)
		return brewerydb.NewClient("test-key", zerolog.Nop(), brewerydb.WithBaseURL(baseURL))
	}
}

func TestFetchBreweries(t *testing.T) {
	server := newServer(t, nil, nil)

	var created int32
	fetcher := NewFetcher(factory(server.URL+"/api", &created), 3, zerolog.Nop())

	ids := []int{1, 13, 2, 3}
	result := fetcher.FetchBreweries(context.Background(), ids, true)

	require.Len(t, result.Items, len(ids))
	assert.Equal(t, int32(len(ids)), created)

	for i, id := range ids {
		assert.Equal(t, id, result.Items[i].ID)
		assert.Contains(t, result.Items[i].URI, fmt.Sprintf("/breweries/%d/", id))
		assert.Contains(t, result.Items[i].URI, "apikey=REDACTED")
	}

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 13, failed[0].ID)
	var svcErr *brewerydb.ServiceError
	require.ErrorAs(t, failed[0].Err, &svcErr)
	assert.Equal(t, "brewery not found", svcErr.Message)

	succeeded := result.Successful()
	require.Len(t, succeeded, 3)
	data := succeeded[0].Response.(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "Brewery 1", data["name"])
}

func TestFetchBreweriesRespectsLimit(t *testing.T) {
	var inFlight, maxInFlight int32
	server := newServer(t, &inFlight, &maxInFlight)

	var created int32
	fetcher := NewFetcher(factory(server.URL+"/api", &created), 2, zerolog.Nop())

	result := fetcher.FetchBreweries(context.Background(), []int{1, 2, 3, 4, 5, 6}, false)

	assert.Empty(t, result.Failed())
	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(1))
}

func TestFetchBreweriesFactoryError(t *testing.T) {
	boom := errors.New("no api key")
	fetcher := NewFetcher(func() (*brewerydb.Client, error) {
		return nil, boom
	}, 0, zerolog.Nop())

	result := fetcher.FetchBreweries(context.Background(), []int{1, 2}, true)

	require.Len(t, result.Failed(), 2)
	for _, item := range result.Items {
		assert.ErrorIs(t, item.Err, boom)
		assert.Empty(t, item.URI)
	}
}

func TestFetchBreweriesEmpty(t *testing.T) {
	fetcher := NewFetcher(nil, 1, zerolog.Nop())
	result := fetcher.FetchBreweries(context.Background(), nil, true)
	assert.Empty(t, result.Items)
}

func TestNewFetcherClampsConcurrency(t *testing.T) {
	assert.Equal(t, DefaultConcurrency, NewFetcher(nil, 0, zerolog.Nop()).concurrency)
	assert.Equal(t, MaxConcurrency, NewFetcher(nil, 100, zerolog.Nop()).concurrency)
	assert.Equal(t, 7, NewFetcher(nil, 7, zerolog.Nop()).concurrency)
}
