package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/wonny/stockaura/pkg/config"
	"github.com/wonny/stockaura/pkg/logger"
	"github.com/wonny/stockaura/pkg/redis"
)

func newTestClient(maxRetries int) *Client {
	return New(config.UpstreamConfig{Timeout: 5 * time.Second, MaxRetries: maxRetries}, logger.Nop())
}

func TestNew(t *testing.T) {
	client := New(config.UpstreamConfig{MaxRetries: 3}, logger.Nop())

	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout=30s, got %v", client.httpClient.Timeout)
	}
	if !client.retryConfig.Enabled || client.retryConfig.MaxRetries != 3 {
		t.Errorf("Expected 3 retries enabled, got %+v", client.retryConfig)
	}

	if New(config.UpstreamConfig{}, logger.Nop()).retryConfig.Enabled {
		t.Error("Expected retry disabled when MaxRetries=0")
	}
}

func TestWithRetry(t *testing.T) {
	client := newTestClient(0).WithRetry(5, 2*time.Second)

	if client.retryConfig.MaxRetries != 5 {
		t.Errorf("Expected MaxRetries=5, got %d", client.retryConfig.MaxRetries)
	}
	if client.retryConfig.InitialDelay != 2*time.Second {
		t.Errorf("Expected InitialDelay=2s, got %v", client.retryConfig.InitialDelay)
	}

	if client.DisableRetry().retryConfig.Enabled {
		t.Error("Expected retry to be disabled")
	}
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Expected Accept=application/json, got %s", r.Header.Get("Accept"))
		}
		w.Write([]byte(`[{"ticker":"AAPL"},{"ticker":"MSFT"}]`))
	}))
	defer server.Close()

	var out []struct {
		Ticker string `json:"ticker"`
	}
	if err := newTestClient(0).GetJSON(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if len(out) != 2 || out[1].Ticker != "MSFT" {
		t.Errorf("Unexpected body: %+v", out)
	}
}

func TestGetJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such feed"))
	}))
	defer server.Close()

	var out []int
	err := newTestClient(2).GetJSON(context.Background(), server.URL, &out)

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if serr.StatusCode != http.StatusNotFound || serr.Body != "no such feed" {
		t.Errorf("Unexpected error: %+v", serr)
	}
}

func TestRetryOn5xx(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			// Return 503 for first 2 attempts
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(0).WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Request failed after retries: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(0).WithRetry(5, time.Second).Get(ctx, server.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	limiter := redis.NewRateLimiter(redis.Wrap(rdb), "test")
	client := newTestClient(0).WithRateLimiter(limiter, redis.UpstreamRateLimit("feed", 1))

	var out []int
	if err := client.GetJSON(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	// budget of 1/min is spent: the second call waits until the context gives up
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := client.GetJSON(ctx, server.URL, &out); err == nil {
		t.Fatal("Expected rate limit wait to fail")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 upstream hit, got %d", hits.Load())
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{200, false},
		{201, false},
		{400, false},
		{404, false},
		{429, true}, // Too Many Requests - should retry
		{500, true},
		{502, true},
		{503, true},
		{504, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			got := IsRetryableError(tt.statusCode)
			if got != tt.want {
				t.Errorf("IsRetryableError(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}
