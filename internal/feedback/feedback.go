// Package feedback defines the boundary to the host's comment-retrieval
// transport. The core consumes fetched comment threads; failures here never
// abort commit creation, they surface as unsuccessful FetchResults.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// FetchResult is the outcome of a feedback fetch. On failure, Error carries
// the reason for display and Comments is empty.
type FetchResult struct {
	Success  bool
	Comments []commit.Comment
	Error    string
}

// Source fetches the full current comment thread for a document. Sources
// return the complete thread on every call; deduplication against history
// happens downstream.
type Source interface {
	FetchComments(ctx context.Context, docID string) FetchResult
}

// defaultTimeout bounds a single fetch.
const defaultTimeout = 30 * time.Second

// tokenHeader carries the access token on API requests.
const tokenHeader = "X-Access-Token"

// HTTPSource fetches comments from the host's REST API.
type HTTPSource struct {
	baseURL string
	token   string
	client  *http.Client
	log     *slog.Logger
}

// NewHTTPSource creates a source for the given API base URL and access
// token. The token may be empty; fetches then fail softly.
func NewHTTPSource(baseURL, token string, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPSource{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
		log:     logger,
	}
}

// commentsEnvelope is the wire shape of the comments endpoint response.
type commentsEnvelope struct {
	Comments []json.RawMessage `json:"comments"`
}

// FetchComments implements Source. Any failure (missing token, transport
// error, non-2xx status, malformed body) yields Success=false with the
// reason; it is never returned as an error.
func (s *HTTPSource) FetchComments(ctx context.Context, docID string) FetchResult {
	if s.token == "" {
		return FetchResult{Error: "access token not configured"}
	}

	url := fmt.Sprintf("%s/files/%s/comments", s.baseURL, docID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{Error: fmt.Sprintf("build request: %v", err)}
	}

	req.Header.Set(tokenHeader, s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("comment fetch failed", slog.Any("error", err))

		return FetchResult{Error: fmt.Sprintf("fetch comments: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return FetchResult{Error: fmt.Sprintf("fetch comments: status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{Error: fmt.Sprintf("read response: %v", err)}
	}

	var envelope commentsEnvelope

	err = json.Unmarshal(body, &envelope)
	if err != nil {
		return FetchResult{Error: fmt.Sprintf("decode response: %v", err)}
	}

	comments := make([]commit.Comment, 0, len(envelope.Comments))

	for i, raw := range envelope.Comments {
		c, decodeErr := commit.DecodeComment(raw)
		if decodeErr != nil {
			return FetchResult{Error: fmt.Sprintf("decode comment %d: %v", i, decodeErr)}
		}

		comments = append(comments, c)
	}

	return FetchResult{Success: true, Comments: comments}
}
