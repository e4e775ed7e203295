package ledger

import "fmt"

// SnapshotVersion is the schema version written into every persisted
// snapshot. Records carrying any other version are treated as absent on
// load.
const SnapshotVersion = 1

// Snapshot is the serialized form of a session: the full player list, the
// session title and the write time in Unix milliseconds. It is what the
// persistence layer stores under its single key and what the event bus
// carries on every committed mutation.
type Snapshot struct {
	Version   int      `json:"version"`
	Players   []Player `json:"players"`
	Title     string   `json:"title"`
	Timestamp int64    `json:"timestamp"`
}

// Validate checks the snapshot's shape: a supported version and
// equal-length score rows across all players. The persistence layer maps
// any violation to the empty default.
func (s Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if len(s.Players) == 0 {
		return nil
	}
	want := len(s.Players[0].Scores)
	for _, p := range s.Players {
		if len(p.Scores) != want {
			return fmt.Errorf("player %s has %d score slots, want %d", p.ID, len(p.Scores), want)
		}
	}
	return nil
}

// Snapshot captures the current session state. The timestamp is left zero;
// the persistence layer stamps it at write time.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Version: SnapshotVersion,
		Players: l.Players(),
		Title:   l.title,
	}
}

// Restore builds a ledger from a previously captured snapshot. An empty
// snapshot (no players) yields a fresh default-width ledger carrying the
// snapshot's title.
func Restore(s Snapshot) (*Ledger, error) {
	l := New()
	l.title = s.Title
	if len(s.Players) == 0 {
		return l, nil
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	l.roundCount = len(s.Players[0].Scores)
	l.players = make([]*Player, len(s.Players))
	for i := range s.Players {
		p := copyPlayer(&s.Players[i])
		l.players[i] = &p
	}
	return l, nil
}
