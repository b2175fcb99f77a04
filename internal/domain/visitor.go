package domain

// Visitor is the pseudonymous identity of the person browsing the site.
// It is an attribution tag only, never a credential.
type Visitor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// ReadingProgress is the visitor's position in the featured document.
type ReadingProgress struct {
	VisitorID   string `json:"visitor_id"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
}

// Percent returns round(current/total*100). ok is false while the total is unknown.
func (p ReadingProgress) Percent() (int, bool) {
	return ReadPercent(p.CurrentPage, p.TotalPages)
}

// ReadPercent computes the read percentage, guarding against an unknown total.
func ReadPercent(current, total int) (int, bool) {
	if total <= 0 {
		return 0, false
	}
	if current < 0 {
		current = 0
	}
	// integer round-half-up of current*100/total
	return (current*200 + total) / (2 * total), true
}
