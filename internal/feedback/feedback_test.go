package feedback_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/designlog/internal/feedback"
)

func TestFetchComments_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/doc-1/comments", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("X-Access-Token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"comments": [
			{"id": "cm1", "author": "Rae", "timestamp": "2026-01-01T00:00:00Z", "text": "hi", "nodeId": "n1"},
			{"id": "cm2", "author": "Kim", "timestamp": 1735689600000, "text": "legacy ts"}
		]}`))
	}))
	t.Cleanup(server.Close)

	source := feedback.NewHTTPSource(server.URL, "tok", nil)

	result := source.FetchComments(context.Background(), "doc-1")
	require.True(t, result.Success, "error: %s", result.Error)
	require.Len(t, result.Comments, 2)

	assert.Equal(t, "cm1", result.Comments[0].ID)
	assert.Equal(t, "n1", result.Comments[0].NodeID)
	assert.Equal(t, time.UnixMilli(1735689600000).UTC(), result.Comments[1].Timestamp)
}

func TestFetchComments_MissingToken(t *testing.T) {
	t.Parallel()

	source := feedback.NewHTTPSource("http://unused", "", nil)

	result := source.FetchComments(context.Background(), "doc-1")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "token")
	assert.Empty(t, result.Comments)
}

func TestFetchComments_HTTPErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	source := feedback.NewHTTPSource(server.URL, "tok", nil)

	result := source.FetchComments(context.Background(), "doc-1")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "403")
}

func TestFetchComments_TransportError(t *testing.T) {
	t.Parallel()

	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	source := feedback.NewHTTPSource(server.URL, "tok", nil)

	result := source.FetchComments(context.Background(), "doc-1")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestFetchComments_MalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"comments": "not an array"`))
	}))
	t.Cleanup(server.Close)

	source := feedback.NewHTTPSource(server.URL, "tok", nil)

	result := source.FetchComments(context.Background(), "doc-1")
	assert.False(t, result.Success)
}
