package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testInput() PredictionInput {
	return PredictionInput{
		RoundHistory: []RoundData{
			{FinalMultiplier: 2.45, Timestamp: time.Now()},
			{FinalMultiplier: 1.17, Timestamp: time.Now()},
		},
		CurrentPot:               10.00,
		AverageCashoutMultiplier: 1.81,
	}
}

func TestClientPredict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}

		var input PredictionInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(input.RoundHistory) != 2 {
			t.Errorf("unexpected round history length: %d", len(input.RoundHistory))
		}
		if input.CurrentPot != 10.00 {
			t.Errorf("unexpected pot: %v", input.CurrentPot)
		}

		json.NewEncoder(w).Encode(Prediction{
			PredictedCrashPoint: 3.72,
			Reasoning:           "pot pressure with a cold streak",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	prediction, err := client.Predict(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.PredictedCrashPoint != 3.72 {
		t.Errorf("unexpected crash point: %v", prediction.PredictedCrashPoint)
	}
	if prediction.Reasoning == "" {
		t.Error("reasoning should be preserved")
	}
}

func TestClientPredictServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	if _, err := client.Predict(context.Background(), testInput()); err == nil {
		t.Error("expected an error on a non-200 response")
	}
}

func TestClientPredictMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	if _, err := client.Predict(context.Background(), testInput()); err == nil {
		t.Error("expected an error on a malformed body")
	}
}

func TestClientPredictIncompletePrediction(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"predicted_crash_point": 2.50})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	if _, err := client.Predict(context.Background(), testInput()); err == nil {
		t.Error("expected an error when reasoning is missing")
	}
}

func TestClientPredictTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.Predict(ctx, testInput()); err == nil {
		t.Error("expected an error when the deadline is exceeded")
	}
}
