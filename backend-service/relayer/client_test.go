package relayer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientDeposit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/deposit" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer shared-key" {
				t.Errorf("auth header = %q", got)
			}

			var req DepositRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.LinkID != "abc12345" || req.AmountLamports != 100000000 {
				t.Errorf("unexpected request body %+v", req)
			}

			json.NewEncoder(w).Encode(map[string]string{"commitment": "C1", "tx": "T1"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "shared-key", time.Second)
		res, err := c.Deposit(context.Background(), DepositRequest{
			LinkID:         "abc12345",
			AmountLamports: 100000000,
			Token:          "SOL",
			PayerWallet:    "payer",
		})
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
		if res.Commitment != "C1" || res.Tx != "T1" {
			t.Errorf("got %+v, want C1/T1", res)
		}
	})

	t.Run("non-2xx carries the relayer message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": "rpc node down"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", time.Second)
		_, err := c.Deposit(context.Background(), DepositRequest{LinkID: "abc12345"})

		var relErr *Error
		if !errors.As(err, &relErr) {
			t.Fatalf("got %T (%v), want *Error", err, err)
		}
		if relErr.StatusCode != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", relErr.StatusCode)
		}
		if relErr.Message != "rpc node down" {
			t.Errorf("message = %q, want the relayer's error", relErr.Message)
		}
	})

	t.Run("non-json error body is kept raw", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", time.Second)
		_, err := c.Deposit(context.Background(), DepositRequest{LinkID: "abc12345"})

		var relErr *Error
		if !errors.As(err, &relErr) {
			t.Fatalf("got %T (%v), want *Error", err, err)
		}
		if relErr.Message != "bad gateway" {
			t.Errorf("message = %q, want raw body", relErr.Message)
		}
	})

	t.Run("response missing commitment rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"tx": "T1"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", time.Second)
		if _, err := c.Deposit(context.Background(), DepositRequest{LinkID: "abc12345"}); err == nil {
			t.Fatal("deposit without commitment accepted")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", 20*time.Millisecond)
		if _, err := c.Deposit(context.Background(), DepositRequest{LinkID: "abc12345"}); err == nil {
			t.Fatal("deposit returned before the deadline with no error")
		}
	})
}

func TestClientWithdraw(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/withdraw" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var req WithdrawRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.Commitment != "C1" {
				t.Errorf("commitment = %q, want C1", req.Commitment)
			}
			json.NewEncoder(w).Encode(map[string]string{"tx": "W1"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", time.Second)
		res, err := c.Withdraw(context.Background(), WithdrawRequest{
			LinkID:          "abc12345",
			Commitment:      "C1",
			AmountLamports:  100000000,
			Token:           "SOL",
			RecipientWallet: "recipient",
		})
		if err != nil {
			t.Fatalf("withdraw: %v", err)
		}
		if res.Tx != "W1" {
			t.Errorf("tx = %q, want W1", res.Tx)
		}
	})

	t.Run("response missing tx rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", time.Second)
		if _, err := c.Withdraw(context.Background(), WithdrawRequest{LinkID: "abc12345"}); err == nil {
			t.Fatal("withdraw without tx accepted")
		}
	})
}
