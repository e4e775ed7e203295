package snapshotdb

import "github.com/uptrace/bun"

// SnapshotRecord is the single-row table backing session persistence. The
// key is fixed; the payload is the JSON-encoded ledger.Snapshot and
// saved_at mirrors the payload's timestamp so expiry never has to parse
// the payload first.
type SnapshotRecord struct {
	bun.BaseModel `bun:"table:snapshots,alias:snap"`

	Key     string `bun:"key,pk"`
	Payload []byte `bun:"payload,notnull"`
	SavedAt int64  `bun:"saved_at,notnull"`
}
