package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/clinops/trialpulse/pkg/httputil"
	"github.com/clinops/trialpulse/pkg/logger"
)

// HTTP reads a dataset served over HTTP, e.g. the static public/ directory
// of the dashboard. Requests go through the retrying, rate-limited client.
type HTTP struct {
	client    *httputil.Client
	baseURL   string
	indexFile string
}

// NewHTTP creates an HTTP source rooted at baseURL
func NewHTTP(baseURL, indexFile string, log *logger.Logger) *HTTP {
	client := httputil.New(log).WithRateLimit(10, 20)
	return NewHTTPWithClient(client, baseURL, indexFile)
}

// NewHTTPWithClient creates an HTTP source with a preconfigured client
func NewHTTPWithClient(client *httputil.Client, baseURL, indexFile string) *HTTP {
	return &HTTP{client: client, baseURL: strings.TrimRight(baseURL, "/"), indexFile: indexFile}
}

func (s *HTTP) Name() string { return "http" }

func (s *HTTP) ReadIndex(ctx context.Context) ([]byte, error) {
	return s.get(ctx, s.indexFile)
}

func (s *HTTP) Open(ctx context.Context, folder, file string) ([]byte, error) {
	if _, err := objectKey("", folder, file); err != nil {
		return nil, err
	}
	return s.get(ctx, folder, file)
}

func (s *HTTP) get(ctx context.Context, segments ...string) ([]byte, error) {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	u := s.baseURL + "/" + strings.Join(escaped, "/")

	data, err := s.client.GetBytes(ctx, u)
	if errors.Is(err, httputil.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", u, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
