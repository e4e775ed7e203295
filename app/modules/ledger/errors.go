package ledger

import "errors"

var (
	// ErrPlayerNotFound is returned when a mutation names an ID that is not
	// (or is no longer) on the sheet.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrRoundOutOfRange is returned when a round index falls outside the
	// current sheet width.
	ErrRoundOutOfRange = errors.New("round index out of range")
)
