package book

import "github.com/teamseason/backend/internal/domain/shared"

// Validation errors for book data
var (
	ErrInvalidEntryType = shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type must be game, practice, tournament, or moment")
	ErrMissingEntryDate = shared.NewDomainError("MISSING_ENTRY_DATE", "Entry date is required")
	ErrTextTooLong      = shared.NewDomainError("TEXT_TOO_LONG", "Entry text cannot exceed 500 characters")
	ErrNoEntries        = shared.NewDomainError("NO_ENTRIES", "Book data must contain at least one entry")
)
