package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-article-page/pkg/retry"
)

// fastRetryConfig は、テストを高速化するためのリトライ設定です。
var fastRetryConfig = retry.Config{
	MaxRetries:      2,
	InitialInterval: 1 * time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func TestNew(t *testing.T) {
	t.Run("default timeout", func(t *testing.T) {
		client := New(0)
		assert.Equal(t, DefaultHTTPTimeout, client.httpClient.(*http.Client).Timeout)
	})
	t.Run("custom timeout", func(t *testing.T) {
		timeout := 30 * time.Second
		client := New(timeout)
		assert.Equal(t, timeout, client.httpClient.(*http.Client).Timeout)
	})
	t.Run("with HTTP client option", func(t *testing.T) {
		custom := &http.Client{Timeout: time.Second}
		client := New(10*time.Second, WithHTTPClient(custom))
		assert.Equal(t, custom, client.httpClient)
	})
}

func TestWithMaxRetries(t *testing.T) {
	client := New(time.Second)
	client.WithMaxRetries(5)
	assert.Equal(t, uint64(5), client.retryConfig.MaxRetries)
}

func TestNonRetryableHTTPError_Error(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       []byte
		expected   string
	}{
		{"non-empty body", 400, []byte("error body"), "HTTPクライアントエラー (非リトライ対象): ステータスコード 400, ボディ: error body"},
		{"empty body", 404, nil, "HTTPクライアントエラー (非リトライ対象): ステータスコード 404, ボディなし"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &NonRetryableHTTPError{StatusCode: tt.statusCode, Body: tt.body}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestFetchBytes(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
			w.Write([]byte("hello body"))
		}))
		defer server.Close()

		client := New(time.Second)
		body, err := client.FetchBytes(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello body"), body)
	})

	t.Run("4xx is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := New(time.Second)
		client.retryConfig = fastRetryConfig

		_, err := client.FetchBytes(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, IsNonRetryableError(err), "4xxは NonRetryableHTTPError であるはず")
		assert.Equal(t, int32(1), calls.Load(), "4xxエラーは再試行されないはず")
	})

	t.Run("5xx is retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 最初の2回は 500、その後は成功
			if calls.Add(1) <= 2 {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			w.Write([]byte("recovered"))
		}))
		defer server.Close()

		client := New(time.Second)
		client.retryConfig = fastRetryConfig

		body, err := client.FetchBytes(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("recovered"), body)
		assert.Equal(t, int32(3), calls.Load())
	})
}

func TestFetchDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Doc Title</title></head><body><article><h1>Heading</h1></article></body></html>`))
	}))
	defer server.Close()

	client := New(time.Second)
	doc, err := client.FetchDocument(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Heading", doc.Find("article h1").Text())
}

func TestIsNonRetryableError(t *testing.T) {
	assert.False(t, IsNonRetryableError(nil))
	assert.False(t, IsNonRetryableError(assert.AnError))
	assert.True(t, IsNonRetryableError(&NonRetryableHTTPError{StatusCode: 403}))
}
