package privacycash

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

// Client talks to the Privacy Cash protocol endpoint. Everything behind it
// (commitments, nullifiers, Merkle proofs, on-chain verification) is opaque
// to this service; we forward parameters and hand back whatever reference
// the protocol returns.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type DepositParams struct {
	LinkID         string `json:"linkId"`
	AmountLamports int64  `json:"amountLamports"`
	Token          string `json:"token"`
	PayerWallet    string `json:"payerWallet"`
	FeePayer       string `json:"feePayer"`
}

type DepositOutcome struct {
	Commitment string `json:"commitment"`
	Tx         string `json:"tx"`
}

type WithdrawParams struct {
	LinkID          string `json:"linkId"`
	Commitment      string `json:"commitment"`
	AmountLamports  int64  `json:"amountLamports"`
	Token           string `json:"token"`
	RecipientWallet string `json:"recipientWallet"`
	FeePayer        string `json:"feePayer"`
}

type WithdrawOutcome struct {
	Tx string `json:"tx"`
}

// ProtocolError is a failure reported by the protocol endpoint itself.
type ProtocolError struct {
	StatusCode int
	Message    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("privacy cash returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) Deposit(ctx context.Context, params DepositParams) (DepositOutcome, error) {
	var out DepositOutcome
	if err := c.post(ctx, "/deposit", params, &out); err != nil {
		return DepositOutcome{}, err
	}
	if out.Commitment == "" || out.Tx == "" {
		return DepositOutcome{}, fmt.Errorf("privacy cash deposit response missing commitment or tx")
	}
	return out, nil
}

func (c *Client) Withdraw(ctx context.Context, params WithdrawParams) (WithdrawOutcome, error) {
	var out WithdrawOutcome
	if err := c.post(ctx, "/withdraw", params, &out); err != nil {
		return WithdrawOutcome{}, err
	}
	if out.Tx == "" {
		return WithdrawOutcome{}, fmt.Errorf("privacy cash withdraw response missing tx")
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("privacy cash call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		return &ProtocolError{StatusCode: resp.StatusCode, Message: protocolMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode privacy cash response: %w", err)
	}
	return nil
}

func protocolMessage(raw []byte) string {
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
