package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

// RoundData is one recent round passed to the predictor as context.
type RoundData struct {
	FinalMultiplier float64   `json:"final_multiplier"`
	Timestamp       time.Time `json:"timestamp"`
}

type PredictionInput struct {
	RoundHistory             []RoundData `json:"round_history"`
	CurrentPot               float64     `json:"current_pot"`
	AverageCashoutMultiplier float64     `json:"average_cashout_multiplier"`
}

// Prediction is the oracle's candidate crash point. The engine performs the
// trust check (> 1.0) itself so it can surface the reasoning of a rejected
// prediction.
type Prediction struct {
	PredictedCrashPoint float64 `json:"predicted_crash_point" validate:"required"`
	Reasoning           string  `json:"reasoning" validate:"required"`
}

// Predictor supplies a candidate crash point for the upcoming round. It may
// be slow or fail; callers bound it with a context deadline.
type Predictor interface {
	Predict(ctx context.Context, input PredictionInput) (*Prediction, error)
}

// Client calls the crash-point oracle over HTTP.
type Client struct {
	url       string
	client    *http.Client
	validator *validator.Validate
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:       url,
		client:    &http.Client{Timeout: timeout},
		validator: validator.New(),
	}
}

func (c *Client) Predict(ctx context.Context, input PredictionInput) (*Prediction, error) {
	const op = "oracle.Client.Predict"

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var prediction Prediction

	if err = json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = c.validator.Struct(prediction); err != nil {
		return nil, fmt.Errorf("%s: malformed prediction: %w", op, err)
	}

	return &prediction, nil
}
