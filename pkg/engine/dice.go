package engine

import "math/rand"

// Roll is the outcome of throwing both dice.
type Roll struct {
	Die1 int `json:"die1"`
	Die2 int `json:"die2"`
}

func (r Roll) Sum() int {
	return r.Die1 + r.Die2
}

func (r Roll) IsDouble() bool {
	return r.Die1 == r.Die2
}

// Roller produces dice rolls. The game takes one at construction so tests
// can script exact sequences.
type Roller func() Roll

// NewRoller returns a Roller backed by its own rand source.
func NewRoller(seed int64) Roller {
	rng := rand.New(rand.NewSource(seed))
	return func() Roll {
		return Roll{Die1: rng.Intn(6) + 1, Die2: rng.Intn(6) + 1}
	}
}

// FixedRolls returns a Roller that replays the given rolls in order and
// loops back to the start when exhausted. Test helper.
func FixedRolls(rolls ...Roll) Roller {
	i := 0
	return func() Roll {
		r := rolls[i%len(rolls)]
		i++
		return r
	}
}
