package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/upishield/upishield/internal/models"
)

// featureCount is the number of synthetic auxiliary features (V1..V28) the
// remote model expects alongside Time and Amount.
const featureCount = 28

// DefaultRemoteTimeout bounds the round trip to the scoring service.
const DefaultRemoteTimeout = 5 * time.Second

// RemoteScorer calls the external ML scoring service. The service accepts a
// 30-field numeric feature vector and returns only a binary label; the
// numeric risk score is synthesized locally by bucketing the label
// (Fraud -> [70,100), Valid -> [0,40)).
type RemoteScorer struct {
	url    string
	client *http.Client
}

// NewRemoteScorer creates a scorer for the service at url.
func NewRemoteScorer(url string, timeout time.Duration) *RemoteScorer {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteScorer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type remotePrediction struct {
	Prediction string `json:"prediction"`
}

// Score builds the feature vector, posts it and maps the returned label to
// a local risk band. Any transport failure or non-2xx status is returned as
// an error so the caller can fall back to the heuristic.
func (s *RemoteScorer) Score(ctx context.Context, req Request) (Outcome, error) {
	features := BuildFeatureVector(req)

	body, err := json.Marshal(features)
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal feature vector: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("build scoring request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return Outcome{}, fmt.Errorf("call scoring service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Outcome{}, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	var pred remotePrediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return Outcome{}, fmt.Errorf("decode scoring response: %w", err)
	}

	if pred.Prediction != models.PredictionFraud && pred.Prediction != models.PredictionValid {
		return Outcome{}, fmt.Errorf("unexpected prediction label %q", pred.Prediction)
	}

	out := Outcome{
		Prediction: pred.Prediction,
		Confidence: randConfidence(0.85, 0.99),
		Features:   features,
	}
	if pred.Prediction == models.PredictionFraud {
		out.RiskScore = randBetween(70, 100)
	} else {
		out.RiskScore = randBetween(0, 40)
	}
	return out, nil
}

// BuildFeatureVector produces the 30-field vector the model was trained on:
// Time, Amount, and V1..V28. The auxiliary features are synthetic noise in
// [-1, 1); only the shape of the vector is a real interface constraint.
func BuildFeatureVector(req Request) models.JSON {
	features := models.JSON{
		"Time":   float64(time.Now().Unix()),
		"Amount": req.Amount,
	}
	for i := 1; i <= featureCount; i++ {
		features[fmt.Sprintf("V%d", i)] = rand.Float64()*2 - 1
	}
	return features
}
