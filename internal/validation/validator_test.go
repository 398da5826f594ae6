package validation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T, cfg *ValidatorConfig) *Validator {
	t.Helper()

	if cfg == nil {
		cfg = &ValidatorConfig{Timeout: 2 * time.Second}
	}
	return NewValidator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProbeValidPoster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", "204800")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := newTestValidator(t, nil)
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1", PosterURL: server.URL})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.ErrorReason)
	require.NotNil(t, result.HTTPStatus)
	assert.Equal(t, http.StatusOK, *result.HTTPStatus)
	assert.Equal(t, "image/jpeg", result.ContentType)
	require.NotNil(t, result.FileSizeBytes)
	assert.Equal(t, int64(204800), *result.FileSizeBytes)
	require.NotNil(t, result.ResponseTimeMS)
	assert.Greater(t, *result.ResponseTimeMS, 0.0)
	assert.Equal(t, "m1", result.ItemID)
}

func TestProbeBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	v := newTestValidator(t, nil)
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1", PosterURL: server.URL})

	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonBadStatus, result.ErrorReason)
	assert.Contains(t, result.ErrorDetail, "404")
	require.NotNil(t, result.HTTPStatus)
	assert.Equal(t, http.StatusNotFound, *result.HTTPStatus)
}

func TestProbeContentTypePolicy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := newTestValidator(t, nil)
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1", PosterURL: server.URL})

	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonPolicy, result.ErrorReason)
	assert.Contains(t, result.ErrorDetail, "invalid content type")
}

func TestProbeFileSizePolicy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", "2048")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := newTestValidator(t, &ValidatorConfig{
		Timeout:          2 * time.Second,
		MaxFileSizeBytes: 1024,
	})
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1", PosterURL: server.URL})

	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonPolicy, result.ErrorReason)
	assert.Contains(t, result.ErrorDetail, "file too large")
	require.NotNil(t, result.FileSizeBytes)
	assert.Equal(t, int64(2048), *result.FileSizeBytes)
}

func TestProbeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := newTestValidator(t, &ValidatorConfig{Timeout: 50 * time.Millisecond})
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1", PosterURL: server.URL})

	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonTimeout, result.ErrorReason)
	require.NotNil(t, result.ResponseTimeMS)
}

func TestProbeTransportError(t *testing.T) {
	// A server that is already closed refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	v := newTestValidator(t, nil)
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1", PosterURL: url})

	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonTransport, result.ErrorReason)
}

func TestProbeMissingURL(t *testing.T) {
	v := newTestValidator(t, nil)
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1"})

	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonPolicy, result.ErrorReason)
	assert.Equal(t, "no poster url", result.ErrorDetail)
	assert.Nil(t, result.HTTPStatus)
}

func TestProbeMalformedURL(t *testing.T) {
	v := newTestValidator(t, nil)
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1", PosterURL: "://not-a-url"})

	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonTransport, result.ErrorReason)
}

func TestProbeSendsUserAgent(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := newTestValidator(t, &ValidatorConfig{
		Timeout:   2 * time.Second,
		UserAgent: "movie-catalog-validator/1.0",
	})
	result := v.Probe(context.Background(), WorkItem{ItemID: "m1", PosterURL: server.URL})

	assert.True(t, result.IsValid)
	assert.Equal(t, "movie-catalog-validator/1.0", gotUserAgent)
}
