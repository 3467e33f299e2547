package book

import "sort"

// Layout cost constants, in layout pixels at the template's print PPI.
// PageBudget is the usable height of one interior page: the 7.125" safe
// area left after bleed, margins, and the page number at ~260 PPI.
const (
	PageBudget = 1850
	dividerH   = 50

	headerH   = 60 // type badge + date row
	scoreH    = 80
	opponentH = 35
	venueH    = 35
	photoH    = 800

	textLineChars  = 42
	textLineHeight = 48
)

// Page is one physical content page of the printed book
type Page struct {
	Entries []Entry `json:"entries"`
}

// EstimateHeight returns the estimated rendered height of an entry in
// layout pixels. The template and this estimate must move together.
func EstimateHeight(e Entry) int {
	h := headerH
	if e.HasScore() {
		h += scoreH
	}
	if e.Opponent != "" {
		h += opponentH
	}
	if e.HasPhoto() {
		h += photoH
	}
	if e.Text != "" {
		lines := (len(e.Text) + textLineChars - 1) / textLineChars
		h += lines * textLineHeight
	}
	if e.Venue != "" {
		h += venueH
	}
	return h
}

// Paginate assigns entries to content pages. Entries are sorted by date
// ascending (stable, so same-day entries keep their input order) and packed
// greedily under PageBudget. A photo entry never shares a page: the open
// page is flushed and the photo entry becomes a page of its own. Entries
// are atomic; a single oversized entry still gets exactly one page.
//
// Pure and deterministic: the same input set always yields the same pages.
func Paginate(entries []Entry) []Page {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var pages []Page
	var current []Entry
	currentHeight := 0

	flush := func() {
		if len(current) > 0 {
			pages = append(pages, Page{Entries: current})
			current = nil
			currentHeight = 0
		}
	}

	for _, entry := range sorted {
		if entry.HasPhoto() {
			flush()
			pages = append(pages, Page{Entries: []Entry{entry}})
			continue
		}

		h := EstimateHeight(entry)
		needed := h
		if currentHeight > 0 {
			needed += dividerH
		}
		if currentHeight+needed > PageBudget && len(current) > 0 {
			flush()
			current = []Entry{entry}
			currentHeight = h
		} else {
			current = append(current, entry)
			currentHeight += needed
		}
	}

	flush()
	return pages
}
