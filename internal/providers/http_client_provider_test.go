package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpClientProvider_SelfSignedTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "de", r.URL.Query().Get("lng"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"promo":[]}`))
	}))
	defer srv.Close()

	client := NewHttpClientProvider(validConfig())
	resp, err := client.Get(context.Background(), srv.URL+"/?lng=de")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"promo":[]}`, string(resp.Body))
}

func TestHttpClientProvider_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	resp, err := NewHttpClientProvider(validConfig()).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestHttpClientProvider_BodyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	conf := validConfig()
	conf.Promo.MaxBodySize = 2048
	resp, err := NewHttpClientProvider(conf).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, resp.Body, 2048)
}

func TestHttpClientProvider_BodyOverLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2049)))
	}))
	defer srv.Close()

	conf := validConfig()
	conf.Promo.MaxBodySize = 2048
	resp, err := NewHttpClientProvider(conf).Get(context.Background(), srv.URL)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestResponseBodyLimit(t *testing.T) {
	conf := validConfig()
	assert.Equal(t, DefaultMaxBodySize, ResponseBodyLimit(conf))

	conf.Promo.MaxBodySize = 4096
	assert.Equal(t, 4096, ResponseBodyLimit(conf))
}

func TestHttpClientProvider_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHttpClientProvider(validConfig()).Get(context.Background(), url)
	assert.Error(t, err)
}

func TestHttpClientProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	conf := validConfig()
	conf.Promo.Timeout = 50 * time.Millisecond
	_, err := NewHttpClientProvider(conf).Get(context.Background(), srv.URL)
	assert.Error(t, err)
}
