package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Charge is the gateway's record of a captured payment.
type Charge struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

// Charger converts a client-side source token into money.
type Charger interface {
	Charge(ctx context.Context, amount int64, currency, sourceToken, idempotencyKey string) (Charge, error)
}

const idempotencyHeader = "Idempotency-Key"

// Gateway talks to a Stripe-style charges endpoint. Calls are bounded by
// Timeout; an ambiguous timeout surfaces as an error and is never retried
// here, the idempotency key exists so a caller-level retry stays safe.
type Gateway struct {
	BaseURL string
	Secret  string
	Timeout time.Duration
	Client  *http.Client
}

func NewGateway(baseURL, secret string, timeout time.Duration) *Gateway {
	return &Gateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Secret:  secret,
		Timeout: timeout,
		Client:  &http.Client{},
	}
}

func (g *Gateway) Charge(ctx context.Context, amount int64, currency, sourceToken, idempotencyKey string) (Charge, error) {
	if amount <= 0 {
		return Charge{}, errors.New("charge amount must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("source", sourceToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return Charge{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(idempotencyHeader, idempotencyKey)
	req.SetBasicAuth(g.Secret, "")

	res, err := g.Client.Do(req)
	if err != nil {
		return Charge{}, fmt.Errorf("gateway request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return Charge{}, fmt.Errorf("gateway rejected charge: %s", apiErr.Error.Message)
		}
		return Charge{}, fmt.Errorf("gateway rejected charge: status %d", res.StatusCode)
	}

	var charge Charge
	if err := json.NewDecoder(res.Body).Decode(&charge); err != nil {
		return Charge{}, fmt.Errorf("decode charge: %w", err)
	}
	if charge.ID == "" {
		return Charge{}, errors.New("gateway returned charge without id")
	}
	return charge, nil
}
