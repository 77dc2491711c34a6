package jma

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/observability"
)

func testClient() *Client {
	return NewClient(5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/view/hourly_s1.php", r.URL.Path)
		assert.Equal(t, "47662", r.URL.Query().Get("block_no"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := testClient()
	body, err := c.Fetch(context.Background(), srv.URL+"/view/hourly_s1.php?prec_no=44&block_no=47662")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(body))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.PageFetches.WithLabelValues("observation", "success")))
}

func TestClient_Fetch_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient()
	url := srv.URL + "/select/prefecture00.php"
	_, err := c.Fetch(context.Background(), url)
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, url, fe.URL)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.PageFetches.WithLabelValues("selector", "error")))
}

func TestClient_Fetch_NotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_Fetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL + "/amedastable.json"
	srv.Close()

	_, err := testClient().Fetch(context.Background(), url)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.NotNil(t, errors.Unwrap(fe))
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient().Fetch(ctx, srv.URL)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPageKind(t *testing.T) {
	assert.Equal(t, "observation", pageKind("https://x/etrn/view/daily_a1.php?prec_no=44"))
	assert.Equal(t, "selector", pageKind("https://x/etrn/select/prefecture00.php?prec_no="))
	assert.Equal(t, "prefecture", pageKind("https://x/etrn/select/prefecture.php?prec_no=44"))
	assert.Equal(t, "stations", pageKind("https://x/amedas/const/amedastable.json"))
	assert.Equal(t, "other", pageKind("https://x/"))
}
