package engine

// TurnManager sequences whose turn it is over the shared player list. It
// never returns a bankrupt player and never decides game over; the Game
// counts survivors for that.
type TurnManager struct {
	players []*Player
	index   int
}

func NewTurnManager(players []*Player) *TurnManager {
	return &TurnManager{players: players}
}

// Current returns the player whose turn it is.
func (t *TurnManager) Current() *Player {
	return t.players[t.index]
}

// Advance moves to the next non-bankrupt player in seating order, wrapping
// around. With every player bankrupt it would spin forever, so the Game must
// detect termination before calling it; the guard below keeps it total.
func (t *TurnManager) Advance() *Player {
	for i := 0; i < len(t.players); i++ {
		t.index = (t.index + 1) % len(t.players)
		if !t.players[t.index].Bankrupt {
			return t.players[t.index]
		}
	}
	return t.players[t.index]
}

// Skip forfeits the current player's turn. Same movement as Advance, kept
// separate for call-site clarity.
func (t *TurnManager) Skip() *Player {
	return t.Advance()
}

// Index exposes the raw turn cursor for snapshots.
func (t *TurnManager) Index() int {
	return t.index
}

func (t *TurnManager) setIndex(i int) {
	t.index = i
}
