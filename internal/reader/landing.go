package reader

import "novel-reader/internal/domain"

// Landing-page call-to-action labels.
const (
	LabelBegin    = "Begin Reading"
	LabelContinue = "Continue Reading"
)

// Landing is what the landing page shows about the visitor's progress.
type Landing struct {
	ButtonLabel string `json:"button_label"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	Percent     *int   `json:"percent,omitempty"`
}

// LandingFor derives the landing summary from stored progress. A visitor who
// has never turned past the first page is offered to begin.
func LandingFor(p domain.ReadingProgress) Landing {
	l := Landing{
		ButtonLabel: LabelBegin,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
	}
	if p.CurrentPage > FirstPage {
		l.ButtonLabel = LabelContinue
	}
	if pct, ok := p.Percent(); ok && p.CurrentPage > 0 {
		l.Percent = &pct
	}
	return l
}

// Landing reads the persisted progress, as the landing page does after the
// reader closes.
func (v *Viewer) Landing() Landing {
	return LandingFor(v.progress.Load())
}
