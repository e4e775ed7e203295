package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultRoundCount is the score sheet width for a freshly created session.
const DefaultRoundCount = 5

// Player is one row on the score sheet. Scores is index-aligned with every
// other player's Scores; a nil entry means no score was recorded for that
// round (distinct from an explicit 0).
type Player struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	Scores []*float64 `json:"scores"`
}

// Total sums the recorded scores. Absent rounds contribute nothing.
func (p *Player) Total() float64 {
	var total float64
	for _, s := range p.Scores {
		if s != nil {
			total += *s
		}
	}
	return total
}

// Ledger owns the authoritative player list for one scoring session.
// All players carry score slices of identical length (the round count),
// and player IDs are never reused within a session. The Ledger itself is
// not goroutine safe; the service layer serializes access.
type Ledger struct {
	players    []*Player
	roundCount int
	title      string
}

// New returns an empty ledger with the default round count.
func New() *Ledger {
	return &Ledger{roundCount: DefaultRoundCount}
}

// AddPlayer appends a player with a fresh ID, a generated display name and
// an all-absent score row, and returns a copy of it.
func (l *Ledger) AddPlayer() Player {
	p := &Player{
		ID:     uuid.New(),
		Name:   fmt.Sprintf("Player %d", len(l.players)+1),
		Scores: make([]*float64, l.roundCount),
	}
	l.players = append(l.players, p)
	return copyPlayer(p)
}

// RemovePlayer deletes the player with the given ID. Removing an unknown
// ID reports ErrPlayerNotFound; remaining players are untouched.
func (l *Ledger) RemovePlayer(id uuid.UUID) error {
	for i, p := range l.players {
		if p.ID == id {
			l.players = append(l.players[:i], l.players[i+1:]...)
			return nil
		}
	}
	return ErrPlayerNotFound
}

// RenamePlayer replaces the player's display name. Empty names are allowed.
func (l *Ledger) RenamePlayer(id uuid.UUID, name string) error {
	p := l.find(id)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Name = name
	return nil
}

// SetScore records value for the player at the given round index. A nil
// value marks the round as absent (blank cell).
func (l *Ledger) SetScore(id uuid.UUID, round int, value *float64) error {
	if round < 0 || round >= l.roundCount {
		return fmt.Errorf("round %d: %w", round, ErrRoundOutOfRange)
	}
	p := l.find(id)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Scores[round] = value
	return nil
}

// AddRound widens the sheet by one absent column for every player. On an
// empty ledger it instead bootstraps the session: the round count snaps back
// to the default width and a first player is created.
func (l *Ledger) AddRound() {
	if len(l.players) == 0 {
		l.roundCount = DefaultRoundCount
		l.AddPlayer()
		return
	}
	l.roundCount++
	for _, p := range l.players {
		p.Scores = append(p.Scores, nil)
	}
}

// RemoveRound deletes the score column at index from every player.
func (l *Ledger) RemoveRound(index int) error {
	if index < 0 || index >= l.roundCount {
		return fmt.Errorf("round %d: %w", index, ErrRoundOutOfRange)
	}
	l.roundCount--
	for _, p := range l.players {
		p.Scores = append(p.Scores[:index], p.Scores[index+1:]...)
	}
	return nil
}

// ResetAll discards every player and starts a fresh session under newTitle.
func (l *Ledger) ResetAll(newTitle string) {
	l.players = nil
	l.roundCount = DefaultRoundCount
	l.title = newTitle
}

// Players returns a deep copy of the player list in insertion order.
func (l *Ledger) Players() []Player {
	out := make([]Player, len(l.players))
	for i, p := range l.players {
		out[i] = copyPlayer(p)
	}
	return out
}

func (l *Ledger) RoundCount() int { return l.roundCount }

func (l *Ledger) Title() string { return l.title }

func (l *Ledger) SetTitle(title string) { l.title = title }

func (l *Ledger) find(id uuid.UUID) *Player {
	for _, p := range l.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func copyPlayer(p *Player) Player {
	scores := make([]*float64, len(p.Scores))
	for i, s := range p.Scores {
		if s != nil {
			v := *s
			scores[i] = &v
		}
	}
	return Player{ID: p.ID, Name: p.Name, Scores: scores}
}
