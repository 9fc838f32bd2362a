package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/upishield/upishield/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPredictionServer(t *testing.T, label string, gotFeatures *map[string]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if gotFeatures != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(gotFeatures))
		}
		json.NewEncoder(w).Encode(map[string]string{"prediction": label})
	}))
}

func TestRemoteScorer_FraudLabelMapsToHighBand(t *testing.T) {
	srv := newPredictionServer(t, models.PredictionFraud, nil)
	defer srv.Close()

	scorer := NewRemoteScorer(srv.URL, time.Second)
	for i := 0; i < 20; i++ {
		out, err := scorer.Score(context.Background(), Request{Amount: 1200})
		require.NoError(t, err)
		assert.Equal(t, models.PredictionFraud, out.Prediction)
		assert.GreaterOrEqual(t, out.RiskScore, 70)
		assert.Less(t, out.RiskScore, 100)
		assert.GreaterOrEqual(t, out.Confidence, 0.85)
		assert.Less(t, out.Confidence, 0.99)
	}
}

func TestRemoteScorer_ValidLabelMapsToLowBand(t *testing.T) {
	srv := newPredictionServer(t, models.PredictionValid, nil)
	defer srv.Close()

	scorer := NewRemoteScorer(srv.URL, time.Second)
	for i := 0; i < 20; i++ {
		out, err := scorer.Score(context.Background(), Request{Amount: 1200})
		require.NoError(t, err)
		assert.Equal(t, models.PredictionValid, out.Prediction)
		assert.GreaterOrEqual(t, out.RiskScore, 0)
		assert.Less(t, out.RiskScore, 40)
	}
}

func TestRemoteScorer_SendsThirtyFieldFeatureVector(t *testing.T) {
	var features map[string]float64
	srv := newPredictionServer(t, models.PredictionValid, &features)
	defer srv.Close()

	scorer := NewRemoteScorer(srv.URL, time.Second)
	_, err := scorer.Score(context.Background(), Request{Amount: 2500.50})
	require.NoError(t, err)

	assert.Len(t, features, 30)
	assert.Equal(t, 2500.50, features["Amount"])
	assert.Contains(t, features, "Time")
	for i := 1; i <= 28; i++ {
		v, ok := features[fmt.Sprintf("V%d", i)]
		require.True(t, ok, "missing feature V%d", i)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
}

func TestRemoteScorer_Non2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "prediction failed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	scorer := NewRemoteScorer(srv.URL, time.Second)
	_, err := scorer.Score(context.Background(), Request{Amount: 100})
	assert.Error(t, err)
}

func TestRemoteScorer_UnknownLabelIsAnError(t *testing.T) {
	srv := newPredictionServer(t, "Maybe", nil)
	defer srv.Close()

	scorer := NewRemoteScorer(srv.URL, time.Second)
	_, err := scorer.Score(context.Background(), Request{Amount: 100})
	assert.Error(t, err)
}

func TestRemoteScorer_TimeoutIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"prediction": models.PredictionValid})
	}))
	defer srv.Close()

	scorer := NewRemoteScorer(srv.URL, 50*time.Millisecond)
	_, err := scorer.Score(context.Background(), Request{Amount: 100})
	assert.Error(t, err)
}

func TestRemoteScorer_UnreachableServiceIsAnError(t *testing.T) {
	scorer := NewRemoteScorer("http://127.0.0.1:1/predict", 100*time.Millisecond)
	_, err := scorer.Score(context.Background(), Request{Amount: 100})
	assert.Error(t, err)
}
