package privacycash

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDeposit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/deposit" {
				t.Errorf("path = %s, want /deposit", r.URL.Path)
			}
			var params DepositParams
			if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if params.FeePayer == "" {
				t.Error("request missing fee payer")
			}
			json.NewEncoder(w).Encode(map[string]string{"commitment": "C1", "tx": "T1"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		out, err := c.Deposit(context.Background(), DepositParams{
			LinkID:         "abc12345",
			AmountLamports: 100000000,
			Token:          "SOL",
			PayerWallet:    "payer",
			FeePayer:       "feepayer",
		})
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
		if out.Commitment != "C1" || out.Tx != "T1" {
			t.Errorf("got %+v, want C1/T1", out)
		}
	})

	t.Run("protocol error carries status and message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "insufficient pool liquidity"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		_, err := c.Deposit(context.Background(), DepositParams{LinkID: "abc12345"})

		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) {
			t.Fatalf("got %T (%v), want *ProtocolError", err, err)
		}
		if protoErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", protoErr.StatusCode)
		}
		if protoErr.Message != "insufficient pool liquidity" {
			t.Errorf("message = %q", protoErr.Message)
		}
	})

	t.Run("missing commitment rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"tx": "T1"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		if _, err := c.Deposit(context.Background(), DepositParams{LinkID: "abc12345"}); err == nil {
			t.Fatal("deposit without commitment accepted")
		}
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var params WithdrawParams
			if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if params.Commitment != "C1" {
				t.Errorf("commitment = %q, want C1", params.Commitment)
			}
			json.NewEncoder(w).Encode(map[string]string{"tx": "W1"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		out, err := c.Withdraw(context.Background(), WithdrawParams{
			LinkID:     "abc12345",
			Commitment: "C1",
		})
		if err != nil {
			t.Fatalf("withdraw: %v", err)
		}
		if out.Tx != "W1" {
			t.Errorf("tx = %q, want W1", out.Tx)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 20*time.Millisecond)
		if _, err := c.Withdraw(context.Background(), WithdrawParams{LinkID: "abc12345"}); err == nil {
			t.Fatal("withdraw returned before the deadline with no error")
		}
	})
}
