package client

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/couchcryptid/risk-map-client/internal/observability"
)

// --- test doubles ---

type mutexDispatcher struct {
	mu sync.Mutex
}

func (d *mutexDispatcher) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

type mockPredictor struct {
	mu       sync.Mutex
	resp     domain.PredictionResponse
	err      error
	requests []domain.PredictionRequest

	// started is signalled when Predict is entered; release unblocks it.
	started chan struct{}
	release chan struct{}
	panics  bool
}

func (m *mockPredictor) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return domain.PredictionResponse{}, ctx.Err()
		}
	}
	if m.panics {
		panic("predictor exploded")
	}
	return m.resp, m.err
}

func (m *mockPredictor) calls() []domain.PredictionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PredictionRequest(nil), m.requests...)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []SubmissionOutcome
}

func (r *recordingObserver) ObserveSubmission(_ context.Context, o SubmissionOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testViewport() Viewport {
	return Viewport{Center: domain.NewCoordinate(40.7128, -74.0060), Zoom: 11}
}

func testDeps(p domain.Predictor) SessionDeps {
	return SessionDeps{
		Viewport:  testViewport(),
		Predictor: p,
		Logger:    discardLogger(),
		Metrics:   observability.NewMetricsForTesting(),
	}
}

// theftResponse is the two-category payload used across tests.
func theftResponse() domain.PredictionResponse {
	return domain.PredictionResponse{
		TopPrediction: &domain.CategoryPrediction{Category: "THEFT", Confidence: 0.72, Subcategories: []string{"GRAND LARCENY"}},
		AllPredictions: []domain.CategoryPrediction{
			{Category: "THEFT", Confidence: 0.72, Subcategories: []string{"GRAND LARCENY"}},
			{Category: "ASSAULT", Confidence: 0.25, Subcategories: []string{}},
		},
	}
}

func fillForm(p *Page) {
	values := map[string]string{
		FieldDate:     "2024-01-01",
		FieldHour:     "14",
		FieldBorough:  "MANHATTAN",
		FieldPrecinct: "1",
		FieldPlace:    "STREET",
		FieldAge:      "30",
		FieldGender:   "M",
		FieldRace:     "WHITE",
	}
	for id, v := range values {
		if err := p.SetField(id, v); err != nil {
			panic(err)
		}
	}
}
