package engine

import (
	"fmt"
	"math/rand"
)

// Fixed amounts of the classic rule set.
const (
	StartingMoney = 1500
	GoBonus       = 200
	JailFine      = 50
	MinPlayers    = 2
	MaxPlayers    = 6
)

// Options are the per-game house rules.
type Options struct {
	// FreeParkingPool accumulates tax payments and pays them out to whoever
	// lands on Free Parking. Off by default.
	FreeParkingPool bool `json:"freeParkingPool,omitempty"`
	// AuctionMinBid is the lowest acceptable opening bid. Defaults to 1.
	AuctionMinBid int `json:"auctionMinBid,omitempty"`
}

// Seat identifies one participant joining a new game.
type Seat struct {
	ID   string
	Name string
}

// Game composes the board, the two decks, the players, the turn manager and
// the property ledger, and exposes the per-turn action API. All operations
// are synchronous and assume the caller serializes access per game.
type Game struct {
	id        string
	board     *Board
	chance    *Deck
	community *Deck
	players   []*Player
	turns     *TurnManager
	ledger    *Ledger
	roller    Roller
	opts      Options

	freeParking   int
	auction       *Auction
	trade         *Trade
	pendingBuy    string
	pendingDouble bool
	over          bool
	winner        string

	// Which deck each held get-out-of-jail-free card goes back to when
	// spent, per player, oldest first. Values are "chance" or "community".
	jailCardSources map[string][]string
}

// NewGame sets up a match: all players at Go with the starting money, every
// space unowned, both decks shuffled with rng (nil keeps load order, which
// tests rely on).
func NewGame(id string, board *Board, chance, community []Card, seats []Seat, roller Roller, rng *rand.Rand, opts Options) (*Game, error) {
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, fmt.Errorf("game: need %d to %d players, got %d", MinPlayers, MaxPlayers, len(seats))
	}
	if roller == nil {
		return nil, fmt.Errorf("game: nil roller")
	}
	if opts.AuctionMinBid <= 0 {
		opts.AuctionMinBid = 1
	}
	seen := make(map[string]bool, len(seats))
	players := make([]*Player, 0, len(seats))
	for _, seat := range seats {
		if seat.ID == "" || seen[seat.ID] {
			return nil, fmt.Errorf("game: duplicate or empty player id %q", seat.ID)
		}
		seen[seat.ID] = true
		players = append(players, &Player{ID: seat.ID, Name: seat.Name, Money: StartingMoney})
	}
	return &Game{
		id:              id,
		board:           board,
		chance:          NewDeck(chance, rng),
		community:       NewDeck(community, rng),
		players:         players,
		turns:           NewTurnManager(players),
		ledger:          NewLedger(board),
		roller:          roller,
		opts:            opts,
		jailCardSources: make(map[string][]string),
	}, nil
}

func (g *Game) ID() string      { return g.id }
func (g *Game) Board() *Board   { return g.board }
func (g *Game) Ledger() *Ledger { return g.ledger }
func (g *Game) Over() bool      { return g.over }
func (g *Game) Winner() string  { return g.winner }

// FreeParkingPool returns the accumulated house-rule pot.
func (g *Game) FreeParkingPool() int { return g.freeParking }

// CurrentPlayer returns whose turn it is.
func (g *Game) CurrentPlayer() *Player { return g.turns.Current() }

// Players returns the seating order, bankrupt players included.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// PlayerByID finds a participant.
func (g *Game) PlayerByID(id string) (*Player, error) {
	for _, p := range g.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, newError(ErrUnknownEntity, "no player %s in this game", id)
}

// AuctionState returns a copy of the open auction, or nil.
func (g *Game) AuctionState() *Auction {
	if g.auction == nil {
		return nil
	}
	a := *g.auction
	return &a
}

// PendingPurchase returns the space name offered to the current player, or "".
func (g *Game) PendingPurchase() string { return g.pendingBuy }

func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.players {
		if !p.Bankrupt {
			n++
		}
	}
	return n
}

// guardTurn validates the common preconditions of a current-player action.
func (g *Game) guardTurn(playerID string) (*Player, error) {
	if g.over {
		return nil, newError(ErrGameAlreadyOver, "the game is over, %s won", g.winner)
	}
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}
	if g.turns.Current().ID != playerID {
		return nil, newError(ErrNotPlayersTurn, "it is not your turn, %s plays next", g.turns.Current().Name)
	}
	return p, nil
}

// Roll throws the dice for the current player and resolves the whole move
// synchronously: doubles bookkeeping, jail handling, movement, the landing
// effect, and turn advancement unless a purchase decision or auction is now
// pending.
func (g *Game) Roll(playerID string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	if g.pendingBuy != "" {
		return nil, newError(ErrInvalidState, "decide on %s before rolling again", g.pendingBuy)
	}
	if g.auction != nil {
		return nil, newError(ErrInvalidState, "an auction for %s is in progress", g.auction.Space)
	}

	roll := g.roller()
	events := []Event{{
		Type: EventRolled, Player: p.ID, Roll: &roll,
		Description: fmt.Sprintf("%s rolled %d and %d", p.Name, roll.Die1, roll.Die2),
	}}

	if p.InJail {
		return append(events, g.rollInJail(p, roll)...), nil
	}

	if roll.IsDouble() {
		p.DoublesCount++
		if p.DoublesCount >= 3 {
			// Third consecutive double: the sum move is discarded.
			events = append(events, g.jailPlayer(p, "rolled three doubles in a row"))
			return append(events, g.endRollPhase(p, false)...), nil
		}
	}

	events = append(events, g.movePlayer(p, roll.Sum())...)
	events = append(events, g.applyLanding(p, roll, true)...)
	return append(events, g.finishRoll(p, roll.IsDouble())...), nil
}

// rollInJail resolves a jailed player's turn after the dice are thrown.
func (g *Game) rollInJail(p *Player, roll Roll) []Event {
	var events []Event
	if roll.IsDouble() {
		p.releaseFromJail()
		events = append(events, Event{
			Type: EventFreed, Player: p.ID,
			Description: fmt.Sprintf("%s rolled doubles and left jail", p.Name),
		})
		events = append(events, g.movePlayer(p, roll.Sum())...)
		events = append(events, g.applyLanding(p, roll, true)...)
		// Exiting on doubles does not grant another roll.
		return append(events, g.finishRoll(p, false)...)
	}

	p.JailTurns++
	if p.JailTurns >= 3 {
		p.Money -= JailFine
		p.releaseFromJail()
		events = append(events, Event{
			Type: EventFreed, Player: p.ID, Amount: JailFine,
			Description: fmt.Sprintf("%s paid the %d fine after three turns and left jail", p.Name, JailFine),
		})
		events = append(events, g.movePlayer(p, roll.Sum())...)
		events = append(events, g.applyLanding(p, roll, true)...)
		return append(events, g.finishRoll(p, false)...)
	}

	events = append(events, Event{
		Type: EventJailStay, Player: p.ID,
		Description: fmt.Sprintf("%s stays in jail (turn %d of 3)", p.Name, p.JailTurns),
	})
	return append(events, g.endRollPhase(p, false)...)
}

// PayJailFine lets the current jailed player buy their way out before
// rolling. They stay on the jail square and roll normally afterwards.
func (g *Game) PayJailFine(playerID string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	if !p.InJail {
		return nil, newError(ErrInvalidState, "you are not in jail")
	}
	if !p.CanAfford(JailFine) {
		return nil, newError(ErrInsufficientFunds, "the jail fine is %d, you have %d", JailFine, p.Money)
	}
	p.Money -= JailFine
	p.releaseFromJail()
	return []Event{{
		Type: EventFreed, Player: p.ID, Amount: JailFine,
		Description: fmt.Sprintf("%s paid the %d fine and left jail", p.Name, JailFine),
	}}, nil
}

// UseJailCard spends a held get-out-of-jail-free card, returning it to the
// bottom of the deck it came from.
func (g *Game) UseJailCard(playerID string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	if !p.InJail {
		return nil, newError(ErrInvalidState, "you are not in jail")
	}
	if p.JailCards <= 0 {
		return nil, newError(ErrInvalidState, "you have no get-out-of-jail-free card")
	}
	p.JailCards--
	g.returnJailCard(p.ID)
	p.releaseFromJail()
	return []Event{{
		Type: EventFreed, Player: p.ID,
		Description: fmt.Sprintf("%s used a get-out-of-jail-free card", p.Name),
	}}, nil
}

// Buy completes the pending purchase offer for the current player.
func (g *Game) Buy(playerID string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	if g.pendingBuy == "" {
		return nil, newError(ErrInvalidState, "there is nothing to buy")
	}
	space, ok := g.board.ByName(g.pendingBuy)
	if !ok {
		return nil, newError(ErrUnknownEntity, "unknown space %s", g.pendingBuy)
	}
	if !p.CanAfford(space.Cost) {
		return nil, newError(ErrInsufficientFunds, "%s costs %d, you have %d", space.Name, space.Cost, p.Money)
	}
	p.Money -= space.Cost
	if err := g.ledger.SetOwner(space.Name, p.ID); err != nil {
		return nil, err
	}
	g.pendingBuy = ""
	events := []Event{{
		Type: EventPurchased, Player: p.ID, Space: space.Name, Amount: space.Cost,
		Description: fmt.Sprintf("%s bought %s for %d", p.Name, space.Name, space.Cost),
	}}
	return append(events, g.endRollPhase(p, g.pendingDouble)...), nil
}

// DeclineAndAuction refuses the pending purchase and opens the auction.
func (g *Game) DeclineAndAuction(playerID string) ([]Event, error) {
	_, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	if g.pendingBuy == "" {
		return nil, newError(ErrInvalidState, "there is nothing to decline")
	}
	name := g.pendingBuy
	g.pendingBuy = ""
	g.auction = newAuction(name, g.opts.AuctionMinBid)
	return []Event{{
		Type: EventAuctionStarted, Space: name,
		Description: fmt.Sprintf("%s goes up for auction", name),
	}}, nil
}

// Bid submits an auction bid from any non-bankrupt player. A bid that is
// too low or beyond the bidder's funds is rejected without state change.
func (g *Game) Bid(playerID string, amount int) ([]Event, error) {
	if g.over {
		return nil, newError(ErrGameAlreadyOver, "the game is over, %s won", g.winner)
	}
	if g.auction == nil {
		return nil, newError(ErrInvalidState, "no auction is open")
	}
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}
	if p.Bankrupt {
		return nil, newError(ErrInvalidState, "bankrupt players cannot bid")
	}
	if !p.CanAfford(amount) {
		return nil, newError(ErrInsufficientFunds, "you cannot cover a bid of %d", amount)
	}
	if err := g.auction.bid(p.ID, amount); err != nil {
		return nil, err
	}
	return []Event{{
		Type: EventBidPlaced, Player: p.ID, Space: g.auction.Space, Amount: amount,
		Description: fmt.Sprintf("%s bid %d for %s", p.Name, amount, g.auction.Space),
	}}, nil
}

// CloseAuction ends the open auction, deterministically: the transport layer
// calls it when its deadline fires or every player has passed. The highest
// bid is paid to the bank; with no bids the property stays unowned.
func (g *Game) CloseAuction() ([]Event, error) {
	if g.auction == nil {
		return nil, newError(ErrInvalidState, "no auction is open")
	}
	a := g.auction
	g.auction = nil

	var events []Event
	winner, err := g.PlayerByID(a.HighestBidder)
	switch {
	// The bid was affordable when placed, but the bidder may have spent money
	// since. Re-check at settlement so the sale never overdraws them.
	case a.HighestBidder != "" && err == nil && !winner.Bankrupt && winner.CanAfford(a.HighestBid):
		winner.Money -= a.HighestBid
		if err := g.ledger.SetOwner(a.Space, winner.ID); err != nil {
			return nil, err
		}
		events = append(events, Event{
			Type: EventAuctionWon, Player: winner.ID, Space: a.Space, Amount: a.HighestBid,
			Description: fmt.Sprintf("%s won the auction for %s at %d", winner.Name, a.Space, a.HighestBid),
		})
	case a.HighestBidder != "":
		events = append(events, Event{
			Type: EventAuctionPassed, Space: a.Space,
			Description: fmt.Sprintf("the bid of %d for %s could not be covered, it stays with the bank", a.HighestBid, a.Space),
		})
	default:
		events = append(events, Event{
			Type: EventAuctionPassed, Space: a.Space,
			Description: fmt.Sprintf("nobody bid on %s, it stays with the bank", a.Space),
		})
	}
	return append(events, g.endRollPhase(g.turns.Current(), g.pendingDouble)...), nil
}

// Mortgage flips an undeveloped owned property to mortgaged and pays out its
// mortgage value.
func (g *Game) Mortgage(playerID, spaceName string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	space, ok := g.board.ByName(spaceName)
	if !ok {
		return nil, newError(ErrUnknownEntity, "unknown space %s", spaceName)
	}
	if err := g.ledger.CanMortgage(p.ID, space.Name); err != nil {
		return nil, err
	}
	entry, _ := g.ledger.Entry(space.Name)
	entry.Mortgaged = true
	p.Money += space.Mortgage
	return []Event{{
		Type: EventMortgaged, Player: p.ID, Space: space.Name, Amount: space.Mortgage,
		Description: fmt.Sprintf("%s mortgaged %s for %d", p.Name, space.Name, space.Mortgage),
	}}, nil
}

// Unmortgage pays back the mortgage value plus 10% interest.
func (g *Game) Unmortgage(playerID, spaceName string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	space, ok := g.board.ByName(spaceName)
	if !ok {
		return nil, newError(ErrUnknownEntity, "unknown space %s", spaceName)
	}
	entry, err := g.ledger.Entry(space.Name)
	if err != nil {
		return nil, err
	}
	if entry.Owner != p.ID {
		return nil, newError(ErrInvalidState, "you do not own %s", space.Name)
	}
	if !entry.Mortgaged {
		return nil, newError(ErrInvalidState, "%s is not mortgaged", space.Name)
	}
	cost := space.Mortgage * 11 / 10
	if !p.CanAfford(cost) {
		return nil, newError(ErrInsufficientFunds, "lifting the mortgage on %s costs %d, you have %d", space.Name, cost, p.Money)
	}
	entry.Mortgaged = false
	p.Money -= cost
	return []Event{{
		Type: EventUnmortgaged, Player: p.ID, Space: space.Name, Amount: cost,
		Description: fmt.Sprintf("%s paid %d to unmortgage %s", p.Name, cost, space.Name),
	}}, nil
}

// BuildHouse adds one house to a fully-grouped, mortgage-free property.
func (g *Game) BuildHouse(playerID, spaceName string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	space, ok := g.board.ByName(spaceName)
	if !ok {
		return nil, newError(ErrUnknownEntity, "unknown space %s", spaceName)
	}
	if err := g.ledger.CanBuildHouse(p.ID, space); err != nil {
		return nil, err
	}
	if !p.CanAfford(space.HouseCost) {
		return nil, newError(ErrInsufficientFunds, "a house on %s costs %d, you have %d", space.Name, space.HouseCost, p.Money)
	}
	entry, _ := g.ledger.Entry(space.Name)
	entry.Houses++
	p.Money -= space.HouseCost
	return []Event{{
		Type: EventHouseBuilt, Player: p.ID, Space: space.Name, Amount: space.HouseCost,
		Description: fmt.Sprintf("%s built a house on %s (%d now)", p.Name, space.Name, entry.Houses),
	}}, nil
}

// BuildHotel converts four houses into a hotel.
func (g *Game) BuildHotel(playerID, spaceName string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	space, ok := g.board.ByName(spaceName)
	if !ok {
		return nil, newError(ErrUnknownEntity, "unknown space %s", spaceName)
	}
	if err := g.ledger.CanBuildHotel(p.ID, space); err != nil {
		return nil, err
	}
	if !p.CanAfford(space.HouseCost) {
		return nil, newError(ErrInsufficientFunds, "the hotel on %s costs %d, you have %d", space.Name, space.HouseCost, p.Money)
	}
	entry, _ := g.ledger.Entry(space.Name)
	entry.Houses = 0
	entry.Hotel = true
	p.Money -= space.HouseCost
	return []Event{{
		Type: EventHotelBuilt, Player: p.ID, Space: space.Name, Amount: space.HouseCost,
		Description: fmt.Sprintf("%s built a hotel on %s", p.Name, space.Name),
	}}, nil
}

// SellHouse refunds half the house cost.
func (g *Game) SellHouse(playerID, spaceName string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	space, ok := g.board.ByName(spaceName)
	if !ok {
		return nil, newError(ErrUnknownEntity, "unknown space %s", spaceName)
	}
	entry, err := g.ledger.Entry(space.Name)
	if err != nil {
		return nil, err
	}
	if entry.Owner != p.ID {
		return nil, newError(ErrInvalidState, "you do not own %s", space.Name)
	}
	if entry.Houses == 0 {
		return nil, newError(ErrInvalidState, "%s has no houses to sell", space.Name)
	}
	entry.Houses--
	refund := space.HouseCost / 2
	p.Money += refund
	return []Event{{
		Type: EventHouseSold, Player: p.ID, Space: space.Name, Amount: refund,
		Description: fmt.Sprintf("%s sold a house on %s for %d", p.Name, space.Name, refund),
	}}, nil
}

// SellHotel converts the hotel back to four houses, refunding half the
// hotel cost.
func (g *Game) SellHotel(playerID, spaceName string) ([]Event, error) {
	p, err := g.guardTurn(playerID)
	if err != nil {
		return nil, err
	}
	space, ok := g.board.ByName(spaceName)
	if !ok {
		return nil, newError(ErrUnknownEntity, "unknown space %s", spaceName)
	}
	entry, err := g.ledger.Entry(space.Name)
	if err != nil {
		return nil, err
	}
	if entry.Owner != p.ID {
		return nil, newError(ErrInvalidState, "you do not own %s", space.Name)
	}
	if !entry.Hotel {
		return nil, newError(ErrInvalidState, "%s has no hotel", space.Name)
	}
	entry.Hotel = false
	entry.Houses = 4
	refund := space.HouseCost / 2
	p.Money += refund
	return []Event{{
		Type: EventHotelSold, Player: p.ID, Space: space.Name, Amount: refund,
		Description: fmt.Sprintf("%s sold the hotel on %s for %d", p.Name, space.Name, refund),
	}}, nil
}

// DeclareBankruptcy removes a player from the game. With beneficiaries the
// money is split evenly (remainder to the first) and the properties are
// dealt round-robin in board order keeping their mortgage flags; without,
// everything returns to the bank in default state. Held jail cards go back
// under their decks either way. Any player may declare at any point of the
// turn, typically right after an unpayable rent.
func (g *Game) DeclareBankruptcy(playerID string, beneficiaryIDs []string) ([]Event, error) {
	if g.over {
		return nil, newError(ErrGameAlreadyOver, "the game is over, %s won", g.winner)
	}
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}
	if p.Bankrupt {
		return nil, newError(ErrInvalidState, "%s is already bankrupt", p.Name)
	}
	beneficiaries := make([]*Player, 0, len(beneficiaryIDs))
	for _, id := range beneficiaryIDs {
		b, err := g.PlayerByID(id)
		if err != nil {
			return nil, err
		}
		if b.Bankrupt || b.ID == p.ID {
			return nil, newError(ErrInvalidState, "%s cannot receive the assets", b.Name)
		}
		beneficiaries = append(beneficiaries, b)
	}

	owned := g.ledger.OwnedBy(p.ID)
	if len(beneficiaries) > 0 {
		if p.Money > 0 {
			share := p.Money / len(beneficiaries)
			remainder := p.Money - share*len(beneficiaries)
			for _, b := range beneficiaries {
				b.Money += share
			}
			beneficiaries[0].Money += remainder
		}
		for i, e := range owned {
			if err := g.ledger.Transfer(e.Space, beneficiaries[i%len(beneficiaries)].ID); err != nil {
				return nil, err
			}
		}
	} else {
		for _, e := range owned {
			if err := g.ledger.Release(e.Space); err != nil {
				return nil, err
			}
		}
	}
	for p.JailCards > 0 {
		p.JailCards--
		g.returnJailCard(p.ID)
	}

	wasCurrent := g.turns.Current().ID == p.ID
	p.Bankrupt = true
	p.Money = 0
	p.InJail = false
	p.JailTurns = 0
	p.DoublesCount = 0

	events := []Event{{
		Type: EventBankrupt, Player: p.ID,
		Description: fmt.Sprintf("%s is bankrupt and out of the game", p.Name),
	}}

	if g.pendingBuy != "" && wasCurrent {
		g.pendingBuy = ""
		g.pendingDouble = false
	}
	if g.trade != nil && (g.trade.From == p.ID || g.trade.To == p.ID) {
		g.trade = nil
	}
	if g.activeCount() <= 1 {
		g.over = true
		for _, q := range g.players {
			if !q.Bankrupt {
				g.winner = q.ID
				events = append(events, Event{
					Type: EventGameOver, Player: q.ID,
					Description: fmt.Sprintf("%s wins the game", q.Name),
				})
			}
		}
		return events, nil
	}
	if wasCurrent && g.auction == nil {
		next := g.turns.Skip()
		events = append(events, Event{
			Type: EventTurnChanged, Player: next.ID,
			Description: fmt.Sprintf("it is %s's turn", next.Name),
		})
	}
	return events, nil
}

// movePlayer shifts the player by steps (negative allowed), wrapping modulo
// the board length. A forward wrap past Go pays the bonus exactly once;
// moving backwards never does.
func (g *Game) movePlayer(p *Player, steps int) []Event {
	n := g.board.Len()
	old := p.Position
	pos := ((old+steps)%n + n) % n
	p.Position = pos
	space := g.board.At(pos)
	events := []Event{{
		Type: EventMoved, Player: p.ID, Space: space.Name,
		Description: fmt.Sprintf("%s moved to %s", p.Name, space.Name),
	}}
	if steps > 0 && pos < old {
		p.Money += GoBonus
		events = append(events, Event{
			Type: EventPassedGo, Player: p.ID, Amount: GoBonus,
			Description: fmt.Sprintf("%s passed Go and collected %d", p.Name, GoBonus),
		})
	}
	return events
}

// applyLanding dispatches the effect of the space the player stopped on.
// allowDraw is false when re-applying a landing after a move-back card, so a
// card space does not trigger a second draw.
func (g *Game) applyLanding(p *Player, roll Roll, allowDraw bool) []Event {
	space := g.board.At(p.Position)
	switch space.Kind {
	case SpaceProperty, SpaceRailroad, SpaceUtility:
		return g.landOnOwnable(p, space, roll)
	case SpaceTax:
		p.Money -= space.Cost
		if g.opts.FreeParkingPool {
			g.freeParking += space.Cost
		}
		return []Event{{
			Type: EventTaxPaid, Player: p.ID, Space: space.Name, Amount: space.Cost,
			Description: fmt.Sprintf("%s paid %d in tax", p.Name, space.Cost),
		}}
	case SpaceChance:
		if allowDraw {
			return g.drawAndResolve(p, g.chance, "chance", roll)
		}
	case SpaceCommunity:
		if allowDraw {
			return g.drawAndResolve(p, g.community, "community", roll)
		}
	case SpaceGoToJail:
		return []Event{g.jailPlayer(p, "landed on Go To Jail")}
	case SpaceFreeParking:
		if g.opts.FreeParkingPool && g.freeParking > 0 {
			amount := g.freeParking
			g.freeParking = 0
			p.Money += amount
			return []Event{{
				Type: EventFreeParking, Player: p.ID, Amount: amount,
				Description: fmt.Sprintf("%s collected %d from Free Parking", p.Name, amount),
			}}
		}
	}
	// go and jail (just visiting) have no landing effect.
	return nil
}

// landOnOwnable offers the purchase, starts the auction, or collects rent.
func (g *Game) landOnOwnable(p *Player, space Space, roll Roll) []Event {
	entry, err := g.ledger.Entry(space.Name)
	if err != nil {
		return nil
	}
	if entry.Owner == "" {
		if p.CanAfford(space.Cost) {
			g.pendingBuy = space.Name
			return []Event{{
				Type: EventPurchaseOffer, Player: p.ID, Space: space.Name, Amount: space.Cost,
				Description: fmt.Sprintf("%s may buy %s for %d", p.Name, space.Name, space.Cost),
			}}
		}
		g.auction = newAuction(space.Name, g.opts.AuctionMinBid)
		return []Event{{
			Type: EventAuctionStarted, Space: space.Name,
			Description: fmt.Sprintf("%s cannot afford %s, it goes up for auction", p.Name, space.Name),
		}}
	}
	if entry.Owner == p.ID || entry.Mortgaged {
		return nil
	}
	owner, err := g.PlayerByID(entry.Owner)
	if err != nil || owner.Bankrupt {
		return nil
	}
	rent := g.ledger.Rent(space, roll.Sum())
	p.Money -= rent
	owner.Money += rent
	return []Event{{
		Type: EventRentPaid, Player: p.ID, Space: space.Name, Amount: rent,
		Description: fmt.Sprintf("%s paid %d rent to %s for %s", p.Name, rent, owner.Name, space.Name),
	}}
}

// drawAndResolve draws the top card and applies its effect exactly once.
func (g *Game) drawAndResolve(p *Player, deck *Deck, source string, roll Roll) []Event {
	card, ok := deck.Draw()
	if !ok {
		return nil
	}
	events := []Event{{
		Type: EventCardDrawn, Player: p.ID,
		Description: fmt.Sprintf("%s drew a card: %s", p.Name, card.Description),
	}}
	return append(events, g.resolveCard(p, card, source, roll)...)
}

// resolveCard is the pure dispatch over the card kinds.
func (g *Game) resolveCard(p *Player, card Card, source string, roll Roll) []Event {
	switch card.Kind {
	case CardAdvance:
		dest, ok := g.board.ByName(card.Dest)
		if !ok {
			return nil
		}
		n := g.board.Len()
		steps := ((dest.Position-p.Position)%n + n) % n
		events := g.movePlayer(p, steps)
		return append(events, g.applyLanding(p, roll, true)...)

	case CardAdvanceNearestRailroad:
		return g.advanceToNearest(p, SpaceRailroad, roll)

	case CardAdvanceNearestUtility:
		return g.advanceToNearest(p, SpaceUtility, roll)

	case CardCollect:
		p.Money += card.Amount
		return []Event{{
			Type: EventCollected, Player: p.ID, Amount: card.Amount,
			Description: fmt.Sprintf("%s collected %d", p.Name, card.Amount),
		}}

	case CardPay:
		p.Money -= card.Amount
		return []Event{{
			Type: EventPaid, Player: p.ID, Amount: card.Amount,
			Description: fmt.Sprintf("%s paid %d", p.Name, card.Amount),
		}}

	case CardPayEachPlayer:
		total := 0
		for _, q := range g.players {
			if q.ID == p.ID || q.Bankrupt {
				continue
			}
			q.Money += card.Amount
			total += card.Amount
		}
		p.Money -= total
		return []Event{{
			Type: EventPaid, Player: p.ID, Amount: total,
			Description: fmt.Sprintf("%s paid %d to each other player", p.Name, card.Amount),
		}}

	case CardCollectEachPlayer:
		total := 0
		for _, q := range g.players {
			if q.ID == p.ID || q.Bankrupt {
				continue
			}
			q.Money -= card.Amount
			total += card.Amount
		}
		p.Money += total
		return []Event{{
			Type: EventCollected, Player: p.ID, Amount: total,
			Description: fmt.Sprintf("%s collected %d from each other player", p.Name, card.Amount),
		}}

	case CardGoToJail:
		return []Event{g.jailPlayer(p, "drew a Go To Jail card")}

	case CardGetOutOfJail:
		p.JailCards++
		g.jailCardSources[p.ID] = append(g.jailCardSources[p.ID], source)
		return []Event{{
			Type: EventCollected, Player: p.ID,
			Description: fmt.Sprintf("%s keeps a get-out-of-jail-free card", p.Name),
		}}

	case CardMoveBack:
		events := g.movePlayer(p, -card.Amount)
		return append(events, g.applyLanding(p, roll, false)...)

	case CardRepairs:
		cost := 0
		for _, e := range g.ledger.OwnedBy(p.ID) {
			cost += e.Houses * card.HouseRate
			if e.Hotel {
				cost += card.HotelRate
			}
		}
		p.Money -= cost
		return []Event{{
			Type: EventPaid, Player: p.ID, Amount: cost,
			Description: fmt.Sprintf("%s paid %d for repairs", p.Name, cost),
		}}
	}
	return nil
}

// advanceToNearest moves forward to the closest space of the kind, with the
// Go bonus on a wrap, then applies the landing effect (typically rent or a
// purchase offer).
func (g *Game) advanceToNearest(p *Player, kind SpaceKind, roll Roll) []Event {
	pos := g.board.NextOfKind(p.Position, kind)
	if pos < 0 {
		return nil
	}
	n := g.board.Len()
	steps := ((pos-p.Position)%n + n) % n
	events := g.movePlayer(p, steps)
	return append(events, g.applyLanding(p, roll, true)...)
}

// jailPlayer applies the jail-entry transition.
func (g *Game) jailPlayer(p *Player, reason string) Event {
	p.sendToJail(g.board.JailPosition())
	return Event{
		Type: EventJailed, Player: p.ID, Space: g.board.At(g.board.JailPosition()).Name,
		Description: fmt.Sprintf("%s %s and went to jail", p.Name, reason),
	}
}

// returnJailCard puts one of a player's held jail cards back under its deck.
func (g *Game) returnJailCard(playerID string) {
	sources := g.jailCardSources[playerID]
	if len(sources) == 0 {
		// Held from a restored snapshot with no source info; default to chance.
		g.chance.ReturnJailCard()
		return
	}
	source := sources[0]
	g.jailCardSources[playerID] = sources[1:]
	if source == "community" {
		g.community.ReturnJailCard()
	} else {
		g.chance.ReturnJailCard()
	}
}

// finishRoll holds the turn open while a purchase decision or auction is
// pending, otherwise closes the roll phase.
func (g *Game) finishRoll(p *Player, wasDouble bool) []Event {
	if g.pendingBuy != "" || g.auction != nil {
		g.pendingDouble = wasDouble
		return nil
	}
	return g.endRollPhase(p, wasDouble)
}

// endRollPhase either lets the same player roll again (doubles) or advances
// the turn. A player jailed or bankrupted during the move never rolls again.
func (g *Game) endRollPhase(p *Player, wasDouble bool) []Event {
	g.pendingDouble = false
	if g.over {
		return nil
	}
	if wasDouble && !p.InJail && !p.Bankrupt {
		return nil
	}
	p.DoublesCount = 0
	next := g.turns.Advance()
	return []Event{{
		Type: EventTurnChanged, Player: next.ID,
		Description: fmt.Sprintf("it is %s's turn", next.Name),
	}}
}
