// Package client calls the fraud scorer from other Go services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mohamkz/banking-app/internal/fraud/entity"
	"github.com/mohamkz/banking-app/internal/pkg/pkglog"
	"github.com/mohamkz/banking-app/internal/pkg/pkgrouter"
)

const (
	DefaultTimeout = 5 * time.Second

	predictPath = "/predict-fraud"
	// error bodies are only read for the log line
	maxErrorBody = 4 << 10
)

// Client posts transactions to a running scorer.
type Client struct {
	url  string
	http *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which only sets DefaultTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		url:  strings.TrimRight(baseURL, "/") + predictPath,
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	Amount          float64 `json:"amount"`
	Timestamp       string  `json:"timestamp"`
	Type            string  `json:"type"`
	ReceiverAccount int64   `json:"receiver_account"`
	SenderAccount   *int64  `json:"sender_account,omitempty"`
}

type response struct {
	IsFraud   *bool    `json:"is_fraud"`
	RiskScore *float64 `json:"risk_score"`
}

// StatusError is returned for a non-2xx answer from the scorer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fraud scorer returned %d: %s", e.StatusCode, e.Body)
}

// PredictFraud scores tx. A sender of entity.UnknownSender is omitted from
// the request.
func (c *Client) PredictFraud(ctx context.Context, tx entity.Transaction) (entity.Prediction, error) {
	body := request{
		Amount:          tx.Amount,
		Timestamp:       tx.Timestamp,
		Type:            string(tx.Type),
		ReceiverAccount: tx.ReceiverAccount,
	}
	if tx.SenderAccount != entity.UnknownSender {
		sender := tx.SenderAccount
		body.SenderAccount = &sender
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return entity.Prediction{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return entity.Prediction{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cid, ok := pkglog.LookupCorrelationID(ctx); ok {
		req.Header.Set(pkgrouter.HeaderCorrelationID, cid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.Prediction{}, fmt.Errorf("call fraud scorer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		//nolint:errcheck // best effort, for the message only
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return entity.Prediction{}, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return entity.Prediction{}, fmt.Errorf("decode response: %w", err)
	}
	if out.IsFraud == nil || out.RiskScore == nil {
		return entity.Prediction{}, errors.New("decode response: missing is_fraud or risk_score")
	}

	return entity.Prediction{IsFraud: *out.IsFraud, RiskScore: *out.RiskScore}, nil
}

// PredictOrSafe scores tx and treats any failure as not fraudulent with a
// zero risk score, so a scorer outage never blocks a transaction.
func (c *Client) PredictOrSafe(ctx context.Context, tx entity.Transaction) entity.Prediction {
	pred, err := c.PredictFraud(ctx, tx)
	if err != nil {
		slog.WarnContext(ctx, "fraud scoring unavailable, using safe default", "error", err)
		return entity.Prediction{}
	}
	return pred
}
