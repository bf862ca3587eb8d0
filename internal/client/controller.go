package client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/couchcryptid/risk-map-client/internal/observability"
)

// FailureAlert is shown for every failed submission.
const FailureAlert = "Error communicating with the prediction server."

// ErrSubmitInFlight is returned when a submission is attempted while another
// one has not completed.
var ErrSubmitInFlight = errors.New("submission already in flight")

// State is the submission lifecycle: Idle → Submitting → (Success | Failure) → Idle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Dispatcher runs fn to completion with exclusive access to the page state.
type Dispatcher interface {
	Do(fn func())
}

// SubmissionOutcome describes one completed submission.
type SubmissionOutcome struct {
	SessionID string
	Request   domain.PredictionRequest
	Response  *domain.PredictionResponse // nil on failure
	Err       error
	Duration  time.Duration
	At        time.Time
}

// Succeeded reports whether the prediction was rendered.
func (o SubmissionOutcome) Succeeded() bool { return o.Err == nil }

// Observer is notified after each submission has settled back to Idle.
// It runs before Submit returns, so implementations must not block.
type Observer interface {
	ObserveSubmission(ctx context.Context, outcome SubmissionOutcome)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, outcome SubmissionOutcome)

// ObserveSubmission calls f(ctx, outcome).
func (f ObserverFunc) ObserveSubmission(ctx context.Context, outcome SubmissionOutcome) {
	f(ctx, outcome)
}

// Controller drives at most one prediction request at a time and manages the
// submit control around it. All page access happens inside the dispatcher;
// the prediction call itself runs outside it so location events keep flowing.
type Controller struct {
	ui        Dispatcher
	page      *Page
	renderer  *Renderer
	predictor domain.Predictor
	logger    *slog.Logger
	metrics   *observability.Metrics
	observers []Observer

	state State
}

// NewController creates a controller in the Idle state.
func NewController(ui Dispatcher, page *Page, renderer *Renderer, predictor domain.Predictor, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	return &Controller{
		ui:        ui,
		page:      page,
		renderer:  renderer,
		predictor: predictor,
		logger:    logger,
		metrics:   metrics,
	}
}

// AddObserver registers an observer for settled submissions.
func (c *Controller) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// State returns the current lifecycle state. Call it from inside the dispatcher.
func (c *Controller) State() State {
	return c.state
}

// Submit runs one full submission. It returns ErrSubmitInFlight without side
// effects when a submission is already outstanding, otherwise the prediction
// error (nil on success). Failures are also reported to the user via an alert.
// The submit control is released exactly once on every path, panics included.
// Cancelling ctx does not abort the prediction call; only values are carried
// through. There is no retry.
func (c *Controller) Submit(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	var (
		req domain.PredictionRequest
		err error
	)
	c.ui.Do(func() { req, err = c.begin() })
	if err != nil {
		c.metrics.Submissions.WithLabelValues("rejected").Inc()
		return err
	}

	start := time.Now()
	outcome := SubmissionOutcome{Request: req}

	settled := false
	defer func() {
		if !settled {
			c.ui.Do(c.settle)
		}
	}()

	resp, err := c.predictor.Predict(ctx, req)
	if err == nil && resp.TopPrediction == nil {
		err = domain.ErrMalformedResponse
	}

	c.ui.Do(func() {
		settled = true
		defer c.settle()
		c.complete(resp, err)
	})

	outcome.Err = err
	if err == nil {
		outcome.Response = &resp
	}
	outcome.Duration = time.Since(start)
	outcome.At = domain.Now()
	for _, o := range c.observers {
		o.ObserveSubmission(ctx, outcome)
	}
	return err
}

// Collect reads every form field, parsing numeric ones. Values that do not
// parse are left nil and still sent.
func (c *Controller) Collect() domain.PredictionRequest {
	f := c.page.fields
	return domain.PredictionRequest{
		Date:      f[FieldDate],
		Hour:      domain.ParseIntField(f[FieldHour]),
		Latitude:  domain.ParseFloatField(f[FieldLatitude]),
		Longitude: domain.ParseFloatField(f[FieldLongitude]),
		Borough:   f[FieldBorough],
		Precinct:  domain.ParseIntField(f[FieldPrecinct]),
		Place:     f[FieldPlace],
		Age:       domain.ParseIntField(f[FieldAge]),
		Gender:    f[FieldGender],
		Race:      f[FieldRace],
	}
}

// begin performs the guarded Idle → Submitting transition.
func (c *Controller) begin() (domain.PredictionRequest, error) {
	if c.state != StateIdle {
		return domain.PredictionRequest{}, ErrSubmitInFlight
	}
	c.state = StateSubmitting
	c.page.SubmitButton = Button{Loading: true, Disabled: true}
	c.metrics.SubmissionsInFlight.Inc()
	return c.Collect(), nil
}

// complete performs Submitting → Success or Submitting → Failure.
func (c *Controller) complete(resp domain.PredictionResponse, err error) {
	if err != nil {
		c.state = StateFailure
		c.metrics.Submissions.WithLabelValues("failure").Inc()
		c.logger.Warn("prediction failed", "error", err)
		c.page.Alert(FailureAlert)
		return
	}
	c.state = StateSuccess
	c.metrics.Submissions.WithLabelValues("success").Inc()
	c.renderer.Render(resp)
}

// settle returns to Idle and releases the submit control.
func (c *Controller) settle() {
	c.state = StateIdle
	c.page.SubmitButton = Button{}
	c.metrics.SubmissionsInFlight.Dec()
}
