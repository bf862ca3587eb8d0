package client

import "github.com/couchcryptid/risk-map-client/internal/domain"

// Renderer binds a prediction response onto the page's result panels.
type Renderer struct {
	page *Page
}

// NewRenderer creates a renderer for the given page.
func NewRenderer(page *Page) *Renderer {
	return &Renderer{page: page}
}

// Render switches the page from the welcome state to the result state and
// rebuilds both result regions from scratch. Calling it again with another
// response fully replaces the previous one. resp.TopPrediction must be set.
func (r *Renderer) Render(resp domain.PredictionResponse) {
	view := domain.BuildResultView(resp)
	p := r.page

	p.WelcomeHidden = true
	p.Result.Hidden = false
	p.BreakdownHidden = false
	p.Breakdown = nil

	pct := view.ConfidencePercent + "%"
	p.Result.Category = view.TopCategory
	p.Result.Subcategories = view.Subcategories
	p.Result.ConfidenceLabel = pct
	p.Result.ProgressWidth = pct

	cards := make([]RiskCard, 0, len(view.Breakdown))
	for _, item := range view.Breakdown {
		value := item.Percent + "%"
		cards = append(cards, RiskCard{
			Name:     item.Category,
			Value:    value,
			BarWidth: value,
			Tier:     item.Tier,
			Class:    "risk-item-card " + string(item.Tier) + " card",
		})
	}
	p.Breakdown = cards
}
