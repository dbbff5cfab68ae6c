package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

func fastConfig(retries int) Config {
	return Config{Timeout: 2 * time.Second, MaxRetries: retries, RetryWaitMin: time.Millisecond, RetryWaitMax: 5 * time.Millisecond, MaxConnsPerHost: 4}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestClient_RetriesUnavailableAndReplaysBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"name":"Vestidos"}`, string(body))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL, bytes.NewBufferString(`{"name":"Vestidos"}`))
	require.NoError(t, err)
	resp, err := New(fastConfig(3)).Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := New(fastConfig(3)).Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := New(fastConfig(2)).Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.EqualValues(t, 3, calls.Load())
}

func TestBreakerClient_OpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := DefaultBreakerConfig("catalog-test")
	cfg.MinRequests = 2
	cfg.Timeout = time.Hour
	b := NewBreakerClient(New(fastConfig(0)), cfg, quiet())

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
		_, err := b.Do(context.Background(), req)
		var se *ServerError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusInternalServerError, se.Status)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := b.Do(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.EqualValues(t, 2, calls.Load())
}

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"vestidos"}]`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"PGRST116","message":"no rows"}`))
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"X","message":"bad sizes"}}`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	hdr := http.Header{"apikey": []string{"anon-key"}}
	c := New(fastConfig(0))

	var out []struct{ ID string }
	require.NoError(t, DoJSON(context.Background(), c, "catalog", Request{Method: http.MethodGet, URL: srv.URL + "/ok", Header: hdr}, &out))
	assert.Equal(t, "vestidos", out[0].ID)

	err := DoJSON(context.Background(), c, "catalog", Request{Method: http.MethodGet, URL: srv.URL + "/missing", Header: hdr}, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = DoJSON(context.Background(), c, "catalog", Request{Method: http.MethodPost, URL: srv.URL + "/bad", Header: hdr, Body: map[string]int{"a": 1}}, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "bad sizes")

	err = DoJSON(context.Background(), c, "catalog", Request{Method: http.MethodGet, URL: srv.URL + "/down", Header: hdr}, nil)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestAsUnavailable(t *testing.T) {
	assert.NoError(t, AsUnavailable(nil, "catalog"))

	nf := apperrors.NotFound("product", "1")
	assert.Same(t, nf, AsUnavailable(nf, "catalog"))

	err := AsUnavailable(errors.New("dial tcp: refused"), "catalog")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}
