package book

import "time"

// EntryType represents the kind of journaled event
type EntryType string

const (
	EntryTypeGame       EntryType = "game"
	EntryTypePractice   EntryType = "practice"
	EntryTypeTournament EntryType = "tournament"
	EntryTypeMoment     EntryType = "moment"
)

// IsValid checks if the EntryType is a valid value
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeGame, EntryTypePractice, EntryTypeTournament, EntryTypeMoment:
		return true
	}
	return false
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// GameResult represents the outcome of a game or tournament entry
type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
	ResultNone GameResult = ""
)

// MaxEntryTextLen is the longest free text an entry may carry
const MaxEntryTextLen = 500

// Entry is one journaled event of a season. Entries are immutable once
// created; the journal owns them and the book pipeline receives copies.
type Entry struct {
	ID        string     `json:"id"`
	Type      EntryType  `json:"entry_type"`
	Date      time.Time  `json:"entry_date"`
	Text      string     `json:"text"`
	Opponent  string     `json:"opponent,omitempty"`
	Venue     string     `json:"venue,omitempty"`
	ScoreHome *int       `json:"score_home,omitempty"`
	ScoreAway *int       `json:"score_away,omitempty"`
	Result    GameResult `json:"result,omitempty"`
	PhotoData string     `json:"photoData,omitempty"`
}

// HasPhoto reports whether the entry carries an attached photo
func (e Entry) HasPhoto() bool {
	return e.PhotoData != ""
}

// HasScore reports whether the entry carries a printable score block.
// Only games and tournaments show scores, and both sides must be present.
func (e Entry) HasScore() bool {
	if e.Type != EntryTypeGame && e.Type != EntryTypeTournament {
		return false
	}
	return e.ScoreHome != nil && e.ScoreAway != nil
}

// Validate checks entry field constraints
func (e Entry) Validate() error {
	if !e.Type.IsValid() {
		return ErrInvalidEntryType
	}
	if e.Date.IsZero() {
		return ErrMissingEntryDate
	}
	if len(e.Text) > MaxEntryTextLen {
		return ErrTextTooLong
	}
	return nil
}

// Team identifies the team the season belongs to
type Team struct {
	Name  string `json:"name"`
	Sport string `json:"sport"`
	Emoji string `json:"emoji,omitempty"`
}

// Season identifies one season of a team
type Season struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Player is one roster member shown on the title page
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookData is the stored payload a printed book is generated from.
// It is serialized to JSON, stored before checkout, and fetched back by
// reference during fulfillment.
type BookData struct {
	Team    Team     `json:"team"`
	Season  Season   `json:"season"`
	Players []Player `json:"players,omitempty"`
	Entries []Entry  `json:"entries"`
}
