package events

import "github.com/scorepad-app/scorepad/app/modules/ledger"

// LedgerUpdatedTopic carries a full snapshot after every committed mutation.
// The storage write-through subscriber persists each one; last write wins.
const LedgerUpdatedTopic = "ledger.updated"

// Mutation reasons attached to LedgerUpdatedPayload.
const (
	ReasonPlayerAdded   = "player.added"
	ReasonPlayerRemoved = "player.removed"
	ReasonPlayerRenamed = "player.renamed"
	ReasonScoreSet      = "score.set"
	ReasonRoundAdded    = "round.added"
	ReasonRoundRemoved  = "round.removed"
	ReasonReset         = "session.reset"
	ReasonRenamed       = "session.renamed"
	ReasonSeeded        = "session.seeded"
)

// LedgerUpdatedPayload is the JSON body published on LedgerUpdatedTopic.
type LedgerUpdatedPayload struct {
	Reason   string          `json:"reason"`
	Snapshot ledger.Snapshot `json:"snapshot"`
}
