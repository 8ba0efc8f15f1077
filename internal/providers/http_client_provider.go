package providers

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"promod/internal/structures"
	"time"
)

const DefaultMaxBodySize = 64 << 10 // 64 KB

var ErrResponseTooLarge = errors.New("response body too large")

// ResponseBodyLimit is the largest promotion body accepted. The transient
// cache is sized so that a body of this size fits in a single entry.
func ResponseBodyLimit(conf *structures.Config) int {
	if conf.Promo.MaxBodySize <= 0 {
		return DefaultMaxBodySize
	}
	return conf.Promo.MaxBodySize
}

type HttpResponse struct {
	StatusCode int
	Body       []byte
}

type HttpClientProviderInterface interface {
	Get(ctx context.Context, url string) (*HttpResponse, error)
}

type HttpClientProvider struct {
	client  *http.Client
	maxBody int
}

// NewHttpClientProvider builds the client used for the promotion endpoint.
// Certificate verification is off: the endpoint is fetched the same way on
// hosts with stale CA bundles.
func NewHttpClientProvider(conf *structures.Config) HttpClientProviderInterface {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec

	timeout := conf.Promo.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HttpClientProvider{
		client:  &http.Client{Transport: transport, Timeout: timeout},
		maxBody: ResponseBodyLimit(conf),
	}
}

func (h *HttpClientProvider) Get(ctx context.Context, url string) (*HttpResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(h.maxBody)+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > h.maxBody {
		return nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, h.maxBody)
	}
	return &HttpResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
