package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/couchcryptid/risk-map-client/internal/observability"
)

// maxErrorBody bounds how much of a non-OK response body is kept in the error.
const maxErrorBody = 512

// StatusError is returned when the prediction service answers with a non-OK status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prediction service error: status %d: %s", e.StatusCode, e.Body)
}

// Client implements domain.Predictor over the service's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a prediction service client. A zero timeout means requests
// wait as long as the service takes.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Predict posts the request to /api/predict and decodes the prediction payload.
func (c *Client) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.PredictionResponse{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict", bytes.NewReader(body))
	if err != nil {
		return domain.PredictionResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.PredictorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.PredictorRequests.WithLabelValues("transport_error").Inc()
		return domain.PredictionResponse{}, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.PredictorRequests.WithLabelValues("http_error").Inc()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.PredictionResponse{}, &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var out domain.PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.metrics.PredictorRequests.WithLabelValues("malformed").Inc()
		return domain.PredictionResponse{}, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if out.TopPrediction == nil {
		c.metrics.PredictorRequests.WithLabelValues("malformed").Inc()
		return domain.PredictionResponse{}, fmt.Errorf("%w: missing top_prediction", domain.ErrMalformedResponse)
	}

	c.metrics.PredictorRequests.WithLabelValues("success").Inc()
	c.logger.Debug("prediction received",
		"category", out.TopPrediction.Category,
		"confidence", out.TopPrediction.Confidence,
		"predictions", len(out.AllPredictions),
	)
	return out, nil
}

// Health is the service's /api/health payload.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// CheckReadiness reports whether the prediction service is up with its model
// loaded. It implements the HTTP server's readiness probe.
func (c *Client) CheckReadiness(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("prediction service unhealthy: status %d", resp.StatusCode)
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if !h.ModelLoaded {
		return errors.New("prediction service model not loaded")
	}
	return nil
}
