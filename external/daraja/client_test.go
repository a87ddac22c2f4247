package daraja

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/arrotech/codarena/internal/platform/resilience"
)

func newTestServer(t *testing.T, tokenCalls *atomic.Int32, push http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		if tokenCalls != nil {
			tokenCalls.Add(1)
		}
		username, password, ok := r.BasicAuth()
		if !ok || username != "consumer-key" || password != "consumer-secret" {
			t.Fatalf("unexpected basic auth: %s / %s", username, password)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-xyz","expires_in":"3599"}`))
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", push)
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client := NewClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "consumer-key",
		ConsumerSecret: "consumer-secret",
		ShortCode:      "174379",
		Passkey:        "test-passkey",
		CallbackURL:    "https://codarena.example.com/v1/payments/callback",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.client = srv.Client()
	client.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	return client
}

func TestClientSTKPush_SendsSignedRequest(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-xyz" {
			t.Fatalf("unexpected authorization header: %s", got)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read push body: %v", err)
		}
		var payload map[string]any
		if err := sonic.Unmarshal(body, &payload); err != nil {
			t.Fatalf("decode push body: %v", err)
		}
		if payload["Timestamp"] != "20250314093000" {
			t.Fatalf("unexpected timestamp: %v", payload["Timestamp"])
		}
		wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "test-passkey" + "20250314093000"))
		if payload["Password"] != wantPassword {
			t.Fatalf("unexpected password: %v", payload["Password"])
		}
		if payload["PhoneNumber"] != "254722000000" {
			t.Fatalf("unexpected phone number: %v", payload["PhoneNumber"])
		}
		if payload["AccountReference"] != "GM42" {
			t.Fatalf("unexpected account reference: %v", payload["AccountReference"])
		}
		if payload["CallBackURL"] != "https://codarena.example.com/v1/payments/callback" {
			t.Fatalf("unexpected callback url: %v", payload["CallBackURL"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"MerchantRequestID":"mr-1",
			"CheckoutRequestID":"cr-1",
			"ResponseCode":"0",
			"ResponseDescription":"Success. Request accepted for processing",
			"CustomerMessage":"Success. Request accepted for processing"
		}`))
	})
	defer srv.Close()

	client := newTestClient(t, srv)

	resp, err := client.STKPush(context.Background(), STKPushRequest{
		Amount:           250,
		PhoneNumber:      "254722000000",
		AccountReference: "GM42",
		Description:      "Entry fee",
	})
	if err != nil {
		t.Fatalf("stk push failed: %v", err)
	}
	if resp.MerchantRequestID != "mr-1" || resp.CheckoutRequestID != "cr-1" {
		t.Fatalf("unexpected request ids: %+v", resp)
	}
}

func TestClientSTKPush_RejectedResponseCode(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ResponseCode":"1","ResponseDescription":"Insufficient funds"}`))
	})
	defer srv.Close()

	client := newTestClient(t, srv)

	_, err := client.STKPush(context.Background(), STKPushRequest{
		Amount:           100,
		PhoneNumber:      "254722000000",
		AccountReference: "GM1",
	})
	if !errors.Is(err, ErrPushRejected) {
		t.Fatalf("expected ErrPushRejected, got %v", err)
	}
}

func TestClientSTKPush_ReusesCachedToken(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MerchantRequestID":"mr","CheckoutRequestID":"cr","ResponseCode":"0"}`))
	})
	defer srv.Close()

	client := newTestClient(t, srv)

	for i := 0; i < 2; i++ {
		if _, err := client.STKPush(context.Background(), STKPushRequest{
			Amount:           100,
			PhoneNumber:      "254722000000",
			AccountReference: "GM1",
		}); err != nil {
			t.Fatalf("stk push failed: %v", err)
		}
	}

	if tokenCalls.Load() != 1 {
		t.Fatalf("expected one token fetch, got %d", tokenCalls.Load())
	}
}

func TestClientSTKPush_ValidatesInput(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{
		BaseURL:        "https://sandbox.safaricom.co.ke",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := client.STKPush(context.Background(), STKPushRequest{Amount: 0, PhoneNumber: "254722000000"}); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if _, err := client.STKPush(context.Background(), STKPushRequest{Amount: 10}); err == nil {
		t.Fatal("expected error for missing phone number")
	}
}
