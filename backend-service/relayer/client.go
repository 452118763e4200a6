package relayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DepositService is the narrow capability the link lifecycle needs from the
// relayer process. The production implementation is Client; tests inject a
// fake so the state machine runs without the external protocol.
type DepositService interface {
	Deposit(ctx context.Context, req DepositRequest) (DepositResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (WithdrawResult, error)
}

type DepositRequest struct {
	LinkID         string `json:"linkId"`
	AmountLamports int64  `json:"amountLamports"`
	Token          string `json:"token"`
	PayerWallet    string `json:"payerWallet"`
}

// DepositResult carries the opaque values the external protocol returns on
// a successful deposit. Commitment is the proof-of-deposit reference; its
// internal structure is unknown to this system.
type DepositResult struct {
	Commitment string `json:"commitment"`
	Tx         string `json:"tx"`
}

type WithdrawRequest struct {
	LinkID          string `json:"linkId"`
	Commitment      string `json:"commitment"`
	AmountLamports  int64  `json:"amountLamports"`
	Token           string `json:"token"`
	RecipientWallet string `json:"recipientWallet"`
}

type WithdrawResult struct {
	Tx string `json:"tx"`
}

// Error is a non-2xx relayer reply. The message is kept verbatim for
// operator logs; it is never user-actionable.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("relayer returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the relayer service over JSON HTTP. One call per
// operation, bounded timeout, no retries; the caller owns retry policy.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Deposit(ctx context.Context, req DepositRequest) (DepositResult, error) {
	var out DepositResult
	if err := c.post(ctx, "/deposit", req, &out); err != nil {
		return DepositResult{}, err
	}
	if out.Commitment == "" || out.Tx == "" {
		return DepositResult{}, fmt.Errorf("relayer deposit response missing commitment or tx")
	}
	return out, nil
}

func (c *Client) Withdraw(ctx context.Context, req WithdrawRequest) (WithdrawResult, error) {
	var out WithdrawResult
	if err := c.post(ctx, "/withdraw", req, &out); err != nil {
		return WithdrawResult{}, err
	}
	if out.Tx == "" {
		return WithdrawResult{}, fmt.Errorf("relayer withdraw response missing tx")
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("relayer call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode relayer response: %w", err)
	}
	return nil
}

// errorMessage pulls the error field out of a JSON error body, falling back
// to the raw text.
func errorMessage(raw []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "(empty body)"
	}
	return msg
}
