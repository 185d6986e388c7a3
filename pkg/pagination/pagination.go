package pagination

const (
	// DefaultPerPage is the catalog page size when none is configured.
	DefaultPerPage = 24
	// MaxPerPage caps how many rows any page query can request.
	MaxPerPage = 100
)

// Params holds 1-based page pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps page to >= 1 and per-page to (0, MaxPerPage].
func Normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	p.PerPage = NormalizePerPage(p.PerPage)
	return p
}

// NormalizePerPage enforces the default and maximum page sizes.
func NormalizePerPage(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	p = Normalize(p)
	return (p.Page - 1) * p.PerPage
}

// Window describes where a fetched page sits inside the full result set.
type Window struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	From     int64 `json:"from"`
	To       int64 `json:"to"`
	LastPage int   `json:"last_page"`
}

// NewWindow computes the 1-based from/to indices of a fetched page. Both are
// zero when the page holds no rows, which covers an empty set and pages past
// the end.
func NewWindow(p Params, total int64, itemsOnPage int) Window {
	p = Normalize(p)
	w := Window{
		Page:     p.Page,
		PerPage:  p.PerPage,
		Total:    total,
		LastPage: LastPage(total, p.PerPage),
	}
	if itemsOnPage <= 0 || total <= 0 {
		return w
	}
	w.From = int64(p.Offset()) + 1
	w.To = min(int64(p.Page)*int64(p.PerPage), total)
	return w
}

// LastPage returns the highest page number for total rows (1 for an empty set).
func LastPage(total int64, perPage int) int {
	perPage = NormalizePerPage(perPage)
	if total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
