package book

// SeasonSummary aggregates the season stats printed on the summary page
type SeasonSummary struct {
	Games     int `json:"games"`
	Practices int `json:"practices"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Draws     int `json:"draws"`
	Photos    int `json:"photos"`
}

// Book is the fully laid-out print book: a title page, a season summary
// page, the paginated content pages, and a closing page. It is derived
// from BookData and regenerated whenever the entries change, never
// mutated in place.
type Book struct {
	Team         Team          `json:"team"`
	Season       Season        `json:"season"`
	Players      []Player      `json:"players,omitempty"`
	Summary      SeasonSummary `json:"summary"`
	ContentPages []Page        `json:"content_pages"`
}

// fixedPages counts the title, summary, and closing pages
const fixedPages = 3

// TotalPages returns the physical page count of the book
func (b *Book) TotalPages() int {
	return fixedPages + len(b.ContentPages)
}

// Build lays out a book from stored book data. An empty entry list still
// produces a valid book with only the fixed pages.
func Build(data BookData) *Book {
	return &Book{
		Team:         data.Team,
		Season:       data.Season,
		Players:      data.Players,
		Summary:      Summarize(data.Entries),
		ContentPages: Paginate(data.Entries),
	}
}

// Summarize computes the season summary stats from the entry list
func Summarize(entries []Entry) SeasonSummary {
	var s SeasonSummary
	for _, e := range entries {
		switch e.Type {
		case EntryTypeGame, EntryTypeTournament:
			s.Games++
		case EntryTypePractice:
			s.Practices++
		}
		switch e.Result {
		case ResultWin:
			s.Wins++
		case ResultLoss:
			s.Losses++
		case ResultDraw:
			s.Draws++
		}
		if e.HasPhoto() {
			s.Photos++
		}
	}
	return s
}
