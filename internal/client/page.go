package client

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/couchcryptid/risk-map-client/internal/domain"
)

// Element identities of the form fields, in submission order.
const (
	FieldDate      = "date"
	FieldHour      = "hour"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldBorough   = "borough"
	FieldPrecinct  = "precinct"
	FieldPlace     = "place"
	FieldAge       = "age"
	FieldGender    = "gender"
	FieldRace      = "race"
)

// FormFields lists every field collected on submission.
var FormFields = []string{
	FieldDate, FieldHour, FieldLatitude, FieldLongitude, FieldBorough,
	FieldPrecinct, FieldPlace, FieldAge, FieldGender, FieldRace,
}

// ErrUnknownField is returned when writing a field the page does not have.
var ErrUnknownField = errors.New("unknown form field")

// Button is the state of the submit control.
type Button struct {
	Loading  bool `json:"loading"`
	Disabled bool `json:"disabled"`
}

// ResultCard is the top-prediction highlight.
type ResultCard struct {
	Hidden          bool     `json:"hidden"`
	Category        string   `json:"category"`
	Subcategories   []string `json:"subcategories"`
	ConfidenceLabel string   `json:"confidence_label"`
	ProgressWidth   string   `json:"progress_width"`
}

// RiskCard is one entry of the breakdown grid.
type RiskCard struct {
	Name     string      `json:"name"`
	Value    string      `json:"value"`
	BarWidth string      `json:"bar_width"`
	Tier     domain.Tier `json:"tier"`
	Class    string      `json:"class"`
}

// Page is the client's view state: form fields, coordinate labels, submit
// control, and result panels. It is not safe for concurrent use; callers go
// through the owning Session.
type Page struct {
	fields map[string]string

	LatDisplay string
	LngDisplay string
	Address    string

	SubmitButton    Button
	WelcomeHidden   bool
	Result          ResultCard
	BreakdownHidden bool
	Breakdown       []RiskCard

	alerts []string
}

// NewPage returns a page in its welcome state with the date field set.
func NewPage(date string) *Page {
	p := &Page{
		fields:          make(map[string]string, len(FormFields)),
		Result:          ResultCard{Hidden: true},
		BreakdownHidden: true,
	}
	for _, id := range FormFields {
		p.fields[id] = ""
	}
	p.fields[FieldDate] = date
	return p
}

// Field returns the current value of a form field.
func (p *Page) Field(id string) string {
	return p.fields[id]
}

// SetField writes a form field as if typed by the user. It never moves the marker.
func (p *Page) SetField(id, value string) error {
	if _, ok := p.fields[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	p.fields[id] = value
	return nil
}

// Alert queues a blocking user-facing message.
func (p *Page) Alert(msg string) {
	p.alerts = append(p.alerts, msg)
}

// TakeAlerts returns and clears the queued alerts.
func (p *Page) TakeAlerts() []string {
	alerts := p.alerts
	p.alerts = nil
	return alerts
}

// Snapshot is a serializable copy of the page for the shell.
type Snapshot struct {
	Fields          map[string]string `json:"fields"`
	LatDisplay      string            `json:"lat_display"`
	LngDisplay      string            `json:"lng_display"`
	Address         string            `json:"address,omitempty"`
	SubmitButton    Button            `json:"submit_button"`
	WelcomeHidden   bool              `json:"welcome_hidden"`
	Result          ResultCard        `json:"result"`
	BreakdownHidden bool              `json:"breakdown_hidden"`
	Breakdown       []RiskCard        `json:"breakdown"`
}

func (p *Page) snapshot() Snapshot {
	result := p.Result
	result.Subcategories = slices.Clone(p.Result.Subcategories)

	return Snapshot{
		Fields:          maps.Clone(p.fields),
		LatDisplay:      p.LatDisplay,
		LngDisplay:      p.LngDisplay,
		Address:         p.Address,
		SubmitButton:    p.SubmitButton,
		WelcomeHidden:   p.WelcomeHidden,
		Result:          result,
		BreakdownHidden: p.BreakdownHidden,
		Breakdown:       slices.Clone(p.Breakdown),
	}
}
