package demo

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
)

// Seeder fills a ledger with plausible-looking session data. A fixed seed
// yields a reproducible sheet.
type Seeder struct {
	faker *gofakeit.Faker
}

func NewSeeder(seed uint64) *Seeder {
	return &Seeder{faker: gofakeit.New(seed)}
}

// Ledger builds a session with the given number of players and rounds.
// Roughly one cell in five stays absent so the demo exercises blank-slot
// handling everywhere.
func (g *Seeder) Ledger(playerCount, rounds int) *ledger.Ledger {
	l := ledger.New()
	l.SetTitle(g.faker.HipsterWord() + " night")

	players := make([]ledger.Player, 0, playerCount)
	for i := 0; i < playerCount; i++ {
		p := l.AddPlayer()
		_ = l.RenamePlayer(p.ID, g.faker.FirstName())
		players = append(players, p)
	}
	for l.RoundCount() < rounds {
		l.AddRound()
	}
	for l.RoundCount() > rounds && l.RoundCount() > 1 {
		_ = l.RemoveRound(l.RoundCount() - 1)
	}

	for _, p := range players {
		for r := 0; r < l.RoundCount(); r++ {
			if g.faker.IntRange(0, 4) == 0 {
				continue
			}
			v := float64(g.faker.IntRange(0, 25))
			_ = l.SetScore(p.ID, r, &v)
		}
	}
	return l
}
