package engine

import "fmt"

// GameRecord is the serializable state of a game, everything needed to
// resume a match after a restart. The board itself is static data and is
// re-loaded by edition, not persisted.
type GameRecord struct {
	ID              string              `json:"id"`
	TurnIndex       int                 `json:"turnIndex"`
	Players         []Player            `json:"players"`
	Ledger          []LedgerEntry       `json:"ledger"`
	Chance          []Card              `json:"chance"`
	Community       []Card              `json:"community"`
	JailCardSources map[string][]string `json:"jailCardSources,omitempty"`
	FreeParking     int                 `json:"freeParkingPool,omitempty"`
	PendingBuy      string              `json:"pendingBuy,omitempty"`
	PendingDouble   bool                `json:"pendingDouble,omitempty"`
	Auction         *Auction            `json:"auction,omitempty"`
	Trade           *Trade              `json:"trade,omitempty"`
	Over            bool                `json:"over,omitempty"`
	Winner          string              `json:"winner,omitempty"`
	Options         Options             `json:"options"`
}

// Snapshot captures the full mutable state of the game.
func (g *Game) Snapshot() *GameRecord {
	rec := &GameRecord{
		ID:            g.id,
		TurnIndex:     g.turns.Index(),
		Players:       make([]Player, len(g.players)),
		Ledger:        g.ledger.Entries(),
		Chance:        g.chance.Cards(),
		Community:     g.community.Cards(),
		FreeParking:   g.freeParking,
		PendingBuy:    g.pendingBuy,
		PendingDouble: g.pendingDouble,
		Over:          g.over,
		Winner:        g.winner,
		Options:       g.opts,
	}
	for i, p := range g.players {
		rec.Players[i] = *p
	}
	if len(g.jailCardSources) > 0 {
		rec.JailCardSources = make(map[string][]string, len(g.jailCardSources))
		for id, sources := range g.jailCardSources {
			rec.JailCardSources[id] = append([]string(nil), sources...)
		}
	}
	rec.Auction = g.AuctionState()
	rec.Trade = g.TradeState()
	return rec
}

// Restore rebuilds a game from a snapshot against the given board.
func Restore(rec *GameRecord, board *Board, roller Roller) (*Game, error) {
	if rec == nil {
		return nil, fmt.Errorf("restore: nil record")
	}
	if roller == nil {
		return nil, fmt.Errorf("restore: nil roller")
	}
	if len(rec.Players) == 0 {
		return nil, fmt.Errorf("restore: game %s has no players", rec.ID)
	}
	if rec.TurnIndex < 0 || rec.TurnIndex >= len(rec.Players) {
		return nil, fmt.Errorf("restore: game %s turn index %d out of range", rec.ID, rec.TurnIndex)
	}
	opts := rec.Options
	if opts.AuctionMinBid <= 0 {
		opts.AuctionMinBid = 1
	}
	g := &Game{
		id:              rec.ID,
		board:           board,
		chance:          restoreDeck(rec.Chance),
		community:       restoreDeck(rec.Community),
		roller:          roller,
		opts:            opts,
		freeParking:     rec.FreeParking,
		pendingBuy:      rec.PendingBuy,
		pendingDouble:   rec.PendingDouble,
		over:            rec.Over,
		winner:          rec.Winner,
		jailCardSources: make(map[string][]string),
	}
	g.players = make([]*Player, len(rec.Players))
	for i := range rec.Players {
		p := rec.Players[i]
		g.players[i] = &p
	}
	g.turns = NewTurnManager(g.players)
	g.turns.setIndex(rec.TurnIndex)
	g.ledger = NewLedger(board)
	for _, e := range rec.Ledger {
		entry, err := g.ledger.Entry(e.Space)
		if err != nil {
			return nil, fmt.Errorf("restore: game %s: %w", rec.ID, err)
		}
		*entry = e
	}
	for id, sources := range rec.JailCardSources {
		g.jailCardSources[id] = append([]string(nil), sources...)
	}
	if rec.Auction != nil {
		a := *rec.Auction
		g.auction = &a
	}
	if rec.Trade != nil {
		tr := *rec.Trade
		g.trade = &tr
	}
	return g, nil
}
