// Command mockpredictor serves a stand-in for the crime risk prediction
// service so the client can be run locally without the model.
//
// Usage:
//
//	go run ./cmd/mockpredictor -addr :8000 -latency 300ms
//
// Confidences are derived from the request body, so the same form always
// yields the same prediction.
package main

import (
	"cmp"
	"encoding/json"
	"errors"
	"flag"
	"hash/fnv"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/risk-map-client/internal/domain"
)

type category struct {
	name          string
	subcategories []string
}

var categories = []category{
	{
		name: "DRUGS/ALCOHOL",
		subcategories: []string{
			"DANGEROUS DRUGS", "INTOXICATED & IMPAIRED DRIVING", "ALCOHOLIC BEVERAGE CONTROL LAW",
			"INTOXICATED/IMPAIRED DRIVING", "UNDER THE INFLUENCE OF DRUGS", "LOITERING FOR DRUG PURPOSES",
		},
	},
	{
		name: "PERSONAL",
		subcategories: []string{
			"ASSAULT 3 & RELATED OFFENSES", "FELONY ASSAULT", "OFFENSES AGAINST THE PERSON",
			"HOMICIDE-NEGLIGENT,UNCLASSIFIE", "HOMICIDE-NEGLIGENT-VEHICLE", "KIDNAPPING & RELATED OFFENSES",
			"ENDAN WELFARE INCOMP", "OFFENSES RELATED TO CHILDREN", "CHILD ABANDONMENT/NON SUPPORT",
			"KIDNAPPING", "DANGEROUS WEAPONS", "UNLAWFUL POSS. WEAP. ON SCHOOL",
		},
	},
	{
		name: "PROPERTY",
		subcategories: []string{
			"BURGLARY", "PETIT LARCENY", "GRAND LARCENY", "ROBBERY", "THEFT-FRAUD",
			"GRAND LARCENY OF MOTOR VEHICLE", "FORGERY", "JOSTLING", "ARSON",
			"PETIT LARCENY OF MOTOR VEHICLE", "OTHER OFFENSES RELATED TO THEF", "BURGLAR'S TOOLS",
			"FRAUDS", "POSSESSION OF STOLEN PROPERTY", "CRIMINAL MISCHIEF & RELATED OF",
			"OFFENSES INVOLVING FRAUD", "FRAUDS", "THEFT OF SERVICES",
		},
	},
	{
		name: "SEXUAL",
		subcategories: []string{
			"SEX CRIMES", "HARRASSMENT 2", "RAPE", "PROSTITUTION & RELATED OFFENSES",
			"FELONY SEX CRIMES", "LOITERING/DEVIATE SEX",
		},
	},
}

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	latency := flag.Duration("latency", 0, "artificial delay before each prediction")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newHandler(*latency, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("mock predictor listening", "addr", *addr, "latency", *latency)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newHandler(latency time.Duration, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/predict", func(w http.ResponseWriter, r *http.Request) {
		var req domain.PredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-r.Context().Done():
				return
			}
		}
		resp, err := predict(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		logger.Debug("prediction", "top", resp.TopPrediction.Category, "confidence", resp.TopPrediction.Confidence)
		writeJSON(w, http.StatusOK, resp)
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "model_loaded": true})
	})
	return mux
}

// predict scores every category from a hash of the request and returns them
// highest confidence first.
func predict(req domain.PredictionRequest) (domain.PredictionResponse, error) {
	key, err := json.Marshal(req)
	if err != nil {
		return domain.PredictionResponse{}, err
	}

	weights := make([]float64, len(categories))
	var total float64
	for i := range categories {
		h := fnv.New64a()
		h.Write(key)             //nolint:errcheck // hash writes never fail
		h.Write([]byte{byte(i)}) //nolint:errcheck // hash writes never fail
		weights[i] = float64(h.Sum64()%1000) + 1
		total += weights[i]
	}

	all := make([]domain.CategoryPrediction, len(categories))
	for i, c := range categories {
		all[i] = domain.CategoryPrediction{
			ID:            i,
			Category:      c.name,
			Confidence:    weights[i] / total,
			Subcategories: c.subcategories,
		}
	}
	slices.SortStableFunc(all, func(a, b domain.CategoryPrediction) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	top := all[0]
	return domain.PredictionResponse{TopPrediction: &top, AllPredictions: all}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
