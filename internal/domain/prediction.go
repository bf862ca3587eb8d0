package domain

import (
	"context"
	"errors"
	"regexp"
	"strconv"
)

// ErrMalformedResponse is returned for an OK response whose body is not a
// usable prediction payload, e.g. one without top_prediction.
var ErrMalformedResponse = errors.New("malformed prediction response")

// PredictionRequest is the body of POST /api/predict. Numeric fields are nil
// when the form value did not parse and are then encoded as JSON null.
type PredictionRequest struct {
	Date      string   `json:"date"`
	Hour      *int     `json:"hour"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Borough   string   `json:"borough"`
	Precinct  *int     `json:"precinct"`
	Place     string   `json:"place"`
	Age       *int     `json:"age"`
	Gender    string   `json:"gender"`
	Race      string   `json:"race"`
}

// CategoryPrediction is the service's score for one risk category.
type CategoryPrediction struct {
	ID            int      `json:"id,omitempty"`
	Category      string   `json:"category"`
	Confidence    float64  `json:"confidence"` // 0.0–1.0
	Subcategories []string `json:"subcategories"`
}

// PredictionResponse is the payload of a successful prediction. TopPrediction is
// taken as the highest-confidence entry without re-checking AllPredictions.
type PredictionResponse struct {
	TopPrediction  *CategoryPrediction  `json:"top_prediction"`
	AllPredictions []CategoryPrediction `json:"all_predictions"`
}

// Predictor issues prediction requests to the external service.
type Predictor interface {
	Predict(ctx context.Context, req PredictionRequest) (PredictionResponse, error)
}

var (
	// intPrefixRe and floatPrefixRe accept a leading number and ignore any
	// trailing text, e.g. "14:00" -> 14, "40.7128N" -> 40.7128.
	intPrefixRe   = regexp.MustCompile(`^\s*([+-]?\d+)`)
	floatPrefixRe = regexp.MustCompile(`^\s*([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
)

// ParseIntField parses the leading integer of a form value. Returns nil when
// there is none.
func ParseIntField(s string) *int {
	m := intPrefixRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &v
}

// ParseFloatField parses the leading decimal number of a form value. Returns nil
// when there is none.
func ParseFloatField(s string) *float64 {
	m := floatPrefixRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}
