package engine_test

import (
	"fmt"
	"testing"

	"github.com/DedS3t/monopoly-engine/pkg/engine"
)

// fullBoard builds a 40-space board with the classic layout of specials and
// generic two-space property groups everywhere else. Tests address properties
// by their position name (P1, P2, ...).
func fullBoard(t *testing.T) *engine.Board {
	t.Helper()
	specials := map[int]engine.Space{
		0:  {Name: "Go", Kind: engine.SpaceGo},
		4:  {Name: "Income Tax", Kind: engine.SpaceTax, Cost: 200},
		5:  {Name: "South Station", Kind: engine.SpaceRailroad, Cost: 200, Mortgage: 100, Rent: 25, Group: "railroad", GroupSize: 4},
		7:  {Name: "Chance", Kind: engine.SpaceChance},
		10: {Name: "Jail", Kind: engine.SpaceJail},
		12: {Name: "Water Works", Kind: engine.SpaceUtility, Cost: 150, Mortgage: 75, Group: "utility", GroupSize: 2},
		15: {Name: "East Station", Kind: engine.SpaceRailroad, Cost: 200, Mortgage: 100, Rent: 25, Group: "railroad", GroupSize: 4},
		20: {Name: "Free Parking", Kind: engine.SpaceFreeParking},
		22: {Name: "Community Chest", Kind: engine.SpaceCommunity},
		25: {Name: "West Station", Kind: engine.SpaceRailroad, Cost: 200, Mortgage: 100, Rent: 25, Group: "railroad", GroupSize: 4},
		28: {Name: "Electric Company", Kind: engine.SpaceUtility, Cost: 150, Mortgage: 75, Group: "utility", GroupSize: 2},
		30: {Name: "Go To Jail", Kind: engine.SpaceGoToJail},
		35: {Name: "North Station", Kind: engine.SpaceRailroad, Cost: 200, Mortgage: 100, Rent: 25, Group: "railroad", GroupSize: 4},
		38: {Name: "Luxury Tax", Kind: engine.SpaceTax, Cost: 100},
	}
	spaces := make([]engine.Space, 40)
	group, placed := 0, 0
	for i := range spaces {
		if s, ok := specials[i]; ok {
			s.Position = i
			spaces[i] = s
			continue
		}
		if placed%2 == 0 {
			group++
		}
		placed++
		spaces[i] = engine.Space{
			Name:           fmt.Sprintf("P%d", i),
			Kind:           engine.SpaceProperty,
			Position:       i,
			Cost:           100,
			Mortgage:       50,
			Rent:           10,
			MultipliedRent: []int{50, 150, 450, 600, 750},
			Group:          fmt.Sprintf("g%d", group),
			GroupSize:      2,
			HouseCost:      50,
		}
	}
	b, err := engine.NewBoard(spaces)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

var seatNames = []string{"Alice", "Bob", "Cara", "Dan", "Eve", "Finn"}

func testSeats(n int) []engine.Seat {
	seats := make([]engine.Seat, n)
	for i := range seats {
		seats[i] = engine.Seat{ID: fmt.Sprintf("p%d", i+1), Name: seatNames[i%len(seatNames)]}
	}
	return seats
}

// mustGame builds a game with scripted dice and unshuffled decks.
func mustGame(t *testing.T, seats int, rolls []engine.Roll, chance, community []engine.Card, opts engine.Options) *engine.Game {
	t.Helper()
	if len(rolls) == 0 {
		rolls = []engine.Roll{{Die1: 1, Die2: 2}}
	}
	g, err := engine.NewGame("test-game", fullBoard(t), chance, community, testSeats(seats), engine.FixedRolls(rolls...), nil, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func player(t *testing.T, g *engine.Game, id string) *engine.Player {
	t.Helper()
	p, err := g.PlayerByID(id)
	if err != nil {
		t.Fatalf("PlayerByID(%s): %v", id, err)
	}
	return p
}

// mustDo returns a helper that fails the test on a command error and hands
// the events back, so command calls can be forwarded to it directly.
func mustDo(t *testing.T) func([]engine.Event, error) []engine.Event {
	return func(events []engine.Event, err error) []engine.Event {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return events
	}
}

func hasEvent(events []engine.Event, typ engine.EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func countEvents(events []engine.Event, typ engine.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func totalMoney(g *engine.Game) int {
	sum := 0
	for _, p := range g.Players() {
		sum += p.Money
	}
	return sum
}

func TestNewGameValidation(t *testing.T) {
	board := fullBoard(t)
	roller := engine.FixedRolls(engine.Roll{Die1: 1, Die2: 2})

	if _, err := engine.NewGame("g", board, nil, nil, testSeats(1), roller, nil, engine.Options{}); err == nil {
		t.Fatal("one player should be rejected")
	}
	if _, err := engine.NewGame("g", board, nil, nil, testSeats(7), roller, nil, engine.Options{}); err == nil {
		t.Fatal("seven players should be rejected")
	}
	dup := []engine.Seat{{ID: "p1", Name: "a"}, {ID: "p1", Name: "b"}}
	if _, err := engine.NewGame("g", board, nil, nil, dup, roller, nil, engine.Options{}); err == nil {
		t.Fatal("duplicate ids should be rejected")
	}
	if _, err := engine.NewGame("g", board, nil, nil, testSeats(2), nil, nil, engine.Options{}); err == nil {
		t.Fatal("nil roller should be rejected")
	}
}

func TestRollOffersPurchaseAndHoldsTurn(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})

	events := mustDo(t)(g.Roll("p1"))
	if !hasEvent(events, engine.EventPurchaseOffer) {
		t.Fatalf("expected a purchase offer, events: %+v", events)
	}
	if g.PendingPurchase() != "P3" {
		t.Fatalf("pending purchase = %q, want P3", g.PendingPurchase())
	}
	if g.CurrentPlayer().ID != "p1" {
		t.Fatal("the turn must stay open while the offer is pending")
	}
	if _, err := g.Roll("p1"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("rolling over a pending offer should fail, got %v", err)
	}
}

func TestBuyCompletesPurchase(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
	mustDo(t)(g.Roll("p1"))

	events := mustDo(t)(g.Buy("p1"))
	if !hasEvent(events, engine.EventPurchased) || !hasEvent(events, engine.EventTurnChanged) {
		t.Fatalf("expected purchase and turn change, events: %+v", events)
	}
	if got := player(t, g, "p1").Money; got != 1400 {
		t.Fatalf("money after buying P3 = %d, want 1400", got)
	}
	if owner := g.Ledger().Owner("P3"); owner != "p1" {
		t.Fatalf("owner of P3 = %q, want p1", owner)
	}
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
	if _, err := g.Buy("p2"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("buying with no offer should fail, got %v", err)
	}
}

func TestRollOutOfTurn(t *testing.T) {
	g := mustGame(t, 2, nil, nil, nil, engine.Options{})
	if _, err := g.Roll("p2"); engine.KindOf(err) != engine.ErrNotPlayersTurn {
		t.Fatalf("expected not-players-turn, got %v", err)
	}
	if _, err := g.Roll("ghost"); engine.KindOf(err) != engine.ErrUnknownEntity {
		t.Fatalf("expected unknown-entity, got %v", err)
	}
}

func TestGoBonusOnForwardWrap(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 2, Die2: 3}}, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	p1.Position = 38

	events := mustDo(t)(g.Roll("p1"))
	if p1.Position != 3 {
		t.Fatalf("position = %d, want 3", p1.Position)
	}
	if n := countEvents(events, engine.EventPassedGo); n != 1 {
		t.Fatalf("passed-go events = %d, want exactly 1", n)
	}
	// 1500 + 200 bonus, the landing only opened a purchase offer.
	if p1.Money != 1700 {
		t.Fatalf("money = %d, want 1700", p1.Money)
	}
}

func TestDoubleGrantsAnotherRoll(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 1}, {Die1: 2, Die2: 3}}, nil, nil, engine.Options{})

	mustDo(t)(g.Roll("p1"))
	mustDo(t)(g.Buy("p1"))
	// The double survives the purchase decision: p1 rolls again.
	if g.CurrentPlayer().ID != "p1" {
		t.Fatalf("turn = %s, want p1 after a double", g.CurrentPlayer().ID)
	}
	events := mustDo(t)(g.Roll("p1"))
	if !hasEvent(events, engine.EventTurnChanged) {
		t.Fatalf("non-double should end the turn, events: %+v", events)
	}
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
}

func TestThreeDoublesSendToJailAndDiscardMove(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 1}, {Die1: 2, Die2: 2}, {Die1: 3, Die2: 3}}, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	// Own the landing spots so the first two doubles resolve without offers.
	g.Ledger().SetOwner("P2", "p1")
	g.Ledger().SetOwner("P6", "p1")

	mustDo(t)(g.Roll("p1"))
	mustDo(t)(g.Roll("p1"))
	if g.CurrentPlayer().ID != "p1" {
		t.Fatal("p1 should still be rolling on doubles")
	}
	moneyBefore := p1.Money

	events := mustDo(t)(g.Roll("p1"))
	if !hasEvent(events, engine.EventJailed) {
		t.Fatalf("third double should jail, events: %+v", events)
	}
	if hasEvent(events, engine.EventMoved) {
		t.Fatal("the third double's move must be discarded")
	}
	if !p1.InJail || p1.Position != 10 {
		t.Fatalf("player state = %+v, want jailed at 10", p1)
	}
	if p1.DoublesCount != 0 {
		t.Fatalf("doubles count = %d, want reset", p1.DoublesCount)
	}
	if p1.Money != moneyBefore {
		t.Fatalf("money changed from %d to %d on a discarded move", moneyBefore, p1.Money)
	}
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
}

func TestJailRollDoubleReleasesWithoutExtraRoll(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 2, Die2: 2}}, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	p1.InJail = true
	p1.Position = 10

	events := mustDo(t)(g.Roll("p1"))
	if !hasEvent(events, engine.EventFreed) {
		t.Fatalf("expected release, events: %+v", events)
	}
	if p1.InJail || p1.Position != 14 {
		t.Fatalf("player = %+v, want free at 14", p1)
	}
	// P14 is unowned, so the purchase offer holds the turn; resolving it
	// must end the turn because a jail-break double grants no extra roll.
	mustDo(t)(g.Buy("p1"))
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
}

func TestJailStayOnFailedRoll(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 3, Die2: 4}}, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	p1.InJail = true
	p1.Position = 10

	events := mustDo(t)(g.Roll("p1"))
	if !hasEvent(events, engine.EventJailStay) {
		t.Fatalf("expected jail-stay, events: %+v", events)
	}
	if !p1.InJail || p1.JailTurns != 1 || p1.Position != 10 {
		t.Fatalf("player = %+v, want still jailed after turn 1", p1)
	}
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
}

func TestJailThirdTurnForcesFineAndMove(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 3, Die2: 4}}, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	p1.InJail = true
	p1.Position = 10
	p1.JailTurns = 2

	events := mustDo(t)(g.Roll("p1"))
	if !hasEvent(events, engine.EventFreed) {
		t.Fatalf("expected forced release, events: %+v", events)
	}
	if p1.InJail {
		t.Fatal("player should be out of jail")
	}
	if p1.Money != 1450 {
		t.Fatalf("money = %d, want 1450 after the 50 fine", p1.Money)
	}
	if p1.Position != 17 {
		t.Fatalf("position = %d, want 17", p1.Position)
	}
}

func TestPayJailFine(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")

	if _, err := g.PayJailFine("p1"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("paying the fine while free should fail, got %v", err)
	}

	p1.InJail = true
	p1.Position = 10
	p1.JailTurns = 1
	mustDo(t)(g.PayJailFine("p1"))
	if p1.InJail || p1.Money != 1450 {
		t.Fatalf("player = %+v, want free with 1450", p1)
	}
	// He stays on the jail square and rolls normally.
	mustDo(t)(g.Roll("p1"))
	if p1.Position != 13 {
		t.Fatalf("position = %d, want 13", p1.Position)
	}
}

func TestPayJailFineBroke(t *testing.T) {
	g := mustGame(t, 2, nil, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	p1.InJail = true
	p1.Position = 10
	p1.Money = 20

	if _, err := g.PayJailFine("p1"); engine.KindOf(err) != engine.ErrInsufficientFunds {
		t.Fatalf("expected insufficient-funds, got %v", err)
	}
	if p1.Money != 20 || !p1.InJail {
		t.Fatalf("failed payment must not mutate, player = %+v", p1)
	}
}

func TestUseJailCard(t *testing.T) {
	g := mustGame(t, 2, nil, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	p1.InJail = true
	p1.Position = 10

	if _, err := g.UseJailCard("p1"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("using a card without one should fail, got %v", err)
	}
	p1.JailCards = 1
	mustDo(t)(g.UseJailCard("p1"))
	if p1.InJail || p1.JailCards != 0 {
		t.Fatalf("player = %+v, want free with no cards", p1)
	}
}

func TestRentPayment(t *testing.T) {
	t.Run("monopoly doubles the base rent", func(t *testing.T) {
		g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
		g.Ledger().SetOwner("P8", "p2")
		g.Ledger().SetOwner("P9", "p2")
		p1 := player(t, g, "p1")
		p1.Position = 5

		events := mustDo(t)(g.Roll("p1"))
		if !hasEvent(events, engine.EventRentPaid) {
			t.Fatalf("expected rent, events: %+v", events)
		}
		if p1.Money != 1480 {
			t.Fatalf("p1 money = %d, want 1480", p1.Money)
		}
		if got := player(t, g, "p2").Money; got != 1520 {
			t.Fatalf("p2 money = %d, want 1520", got)
		}
		if totalMoney(g) != 2*engine.StartingMoney {
			t.Fatalf("rent must conserve money, total = %d", totalMoney(g))
		}
	})

	t.Run("mortgaged property collects nothing", func(t *testing.T) {
		g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
		g.Ledger().SetOwner("P8", "p2")
		e, _ := g.Ledger().Entry("P8")
		e.Mortgaged = true
		p1 := player(t, g, "p1")
		p1.Position = 5

		events := mustDo(t)(g.Roll("p1"))
		if hasEvent(events, engine.EventRentPaid) {
			t.Fatalf("mortgaged space charged rent, events: %+v", events)
		}
		if p1.Money != 1500 {
			t.Fatalf("p1 money = %d, want 1500", p1.Money)
		}
	})

	t.Run("own property is free", func(t *testing.T) {
		g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
		g.Ledger().SetOwner("P8", "p1")
		p1 := player(t, g, "p1")
		p1.Position = 5

		events := mustDo(t)(g.Roll("p1"))
		if hasEvent(events, engine.EventRentPaid) || hasEvent(events, engine.EventPurchaseOffer) {
			t.Fatalf("own landing should be a no-op, events: %+v", events)
		}
		if g.CurrentPlayer().ID != "p2" {
			t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
		}
	})

	t.Run("rent can drive the balance negative", func(t *testing.T) {
		g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
		g.Ledger().SetOwner("P8", "p2")
		g.Ledger().SetOwner("P9", "p2")
		e, _ := g.Ledger().Entry("P8")
		e.Hotel = true
		p1 := player(t, g, "p1")
		p1.Position = 5
		p1.Money = 100

		mustDo(t)(g.Roll("p1"))
		if p1.Money != 100-750 {
			t.Fatalf("p1 money = %d, want %d", p1.Money, 100-750)
		}
	})
}

func TestAuctionFlow(t *testing.T) {
	g := mustGame(t, 3, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
	mustDo(t)(g.Roll("p1"))
	mustDo(t)(g.DeclineAndAuction("p1"))

	if g.AuctionState() == nil {
		t.Fatal("expected an open auction")
	}
	if _, err := g.Roll("p1"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("rolling during an auction should fail, got %v", err)
	}
	if _, err := g.Bid("p2", 0); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("a bid below the minimum should fail, got %v", err)
	}
	mustDo(t)(g.Bid("p2", 60))
	if _, err := g.Bid("p3", 60); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("a non-beating bid should fail, got %v", err)
	}
	if _, err := g.Bid("p3", 2000); engine.KindOf(err) != engine.ErrInsufficientFunds {
		t.Fatalf("an unaffordable bid should fail, got %v", err)
	}
	mustDo(t)(g.Bid("p3", 80))

	events := mustDo(t)(g.CloseAuction())
	if !hasEvent(events, engine.EventAuctionWon) {
		t.Fatalf("expected auction-won, events: %+v", events)
	}
	if owner := g.Ledger().Owner("P3"); owner != "p3" {
		t.Fatalf("owner = %q, want p3", owner)
	}
	if got := player(t, g, "p3").Money; got != 1420 {
		t.Fatalf("p3 money = %d, want 1420", got)
	}
	if g.AuctionState() != nil {
		t.Fatal("auction should be closed")
	}
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
}

func TestAuctionWithoutBids(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
	mustDo(t)(g.Roll("p1"))
	mustDo(t)(g.DeclineAndAuction("p1"))

	events := mustDo(t)(g.CloseAuction())
	if !hasEvent(events, engine.EventAuctionPassed) {
		t.Fatalf("expected auction-passed, events: %+v", events)
	}
	if owner := g.Ledger().Owner("P3"); owner != "" {
		t.Fatalf("owner = %q, want unowned", owner)
	}
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
	if _, err := g.CloseAuction(); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("closing twice should fail, got %v", err)
	}
}

func TestAuctionNoSaleWhenWinnerSpentTheBid(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
	g.Ledger().SetOwner("P1", "p1")
	e, _ := g.Ledger().Entry("P1")
	e.Mortgaged = true

	mustDo(t)(g.Roll("p1"))
	mustDo(t)(g.DeclineAndAuction("p1"))
	mustDo(t)(g.Bid("p1", 1500))

	// Lifting the mortgage mid-auction drops p1 below their standing bid.
	mustDo(t)(g.Unmortgage("p1", "P1"))

	events := mustDo(t)(g.CloseAuction())
	if !hasEvent(events, engine.EventAuctionPassed) {
		t.Fatalf("expected auction-passed, events: %+v", events)
	}
	if owner := g.Ledger().Owner("P3"); owner != "" {
		t.Fatalf("owner = %q, want unowned", owner)
	}
	p1 := player(t, g, "p1")
	if p1.Money != 1445 {
		t.Fatalf("p1 money = %d, want 1445", p1.Money)
	}
	if p1.Bankrupt {
		t.Fatal("p1 should not be bankrupt")
	}
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
}

func TestUnaffordableLandingStartsAuction(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	p1.Money = 50

	events := mustDo(t)(g.Roll("p1"))
	if !hasEvent(events, engine.EventAuctionStarted) {
		t.Fatalf("expected an automatic auction, events: %+v", events)
	}
	if g.PendingPurchase() != "" {
		t.Fatal("no purchase offer should be pending")
	}
	if a := g.AuctionState(); a == nil || a.Space != "P3" {
		t.Fatalf("auction = %+v, want P3", a)
	}
}

func TestMortgageRoundTrip(t *testing.T) {
	g := mustGame(t, 2, nil, nil, nil, engine.Options{})
	g.Ledger().SetOwner("P3", "p1")
	p1 := player(t, g, "p1")

	mustDo(t)(g.Mortgage("p1", "P3"))
	if p1.Money != 1550 {
		t.Fatalf("money after mortgage = %d, want 1550", p1.Money)
	}
	if _, err := g.Mortgage("p1", "P3"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("double mortgage should fail, got %v", err)
	}

	mustDo(t)(g.Unmortgage("p1", "P3"))
	// Lifting costs mortgage value plus 10% interest: 55 on a 50 mortgage.
	if p1.Money != 1495 {
		t.Fatalf("money after unmortgage = %d, want 1495", p1.Money)
	}
	e, _ := g.Ledger().Entry("P3")
	if e.Mortgaged {
		t.Fatal("entry should be unmortgaged")
	}
	if _, err := g.Unmortgage("p1", "P3"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("unmortgaging twice should fail, got %v", err)
	}
}

func TestMortgageRequiresOwnership(t *testing.T) {
	g := mustGame(t, 2, nil, nil, nil, engine.Options{})
	g.Ledger().SetOwner("P3", "p2")
	if _, err := g.Mortgage("p1", "P3"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("mortgaging another player's property should fail, got %v", err)
	}
	if _, err := g.Mortgage("p1", "Chance"); engine.KindOf(err) != engine.ErrUnknownEntity {
		t.Fatalf("mortgaging a card space should fail, got %v", err)
	}
}

func TestBuildAndSell(t *testing.T) {
	g := mustGame(t, 2, nil, nil, nil, engine.Options{})
	g.Ledger().SetOwner("P1", "p1")
	g.Ledger().SetOwner("P2", "p1")
	p1 := player(t, g, "p1")

	for i := 0; i < 4; i++ {
		mustDo(t)(g.BuildHouse("p1", "P1"))
	}
	if _, err := g.BuildHouse("p1", "P1"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("a fifth house should fail, got %v", err)
	}
	mustDo(t)(g.BuildHotel("p1", "P1"))
	e, _ := g.Ledger().Entry("P1")
	if !e.Hotel || e.Houses != 0 {
		t.Fatalf("entry = %+v, want a hotel and no houses", e)
	}
	// 4 houses and the hotel at 50 each.
	if p1.Money != 1500-5*50 {
		t.Fatalf("money = %d, want %d", p1.Money, 1500-5*50)
	}

	mustDo(t)(g.SellHotel("p1", "P1"))
	if e.Hotel || e.Houses != 4 {
		t.Fatalf("entry = %+v, want 4 houses back", e)
	}
	mustDo(t)(g.SellHouse("p1", "P1"))
	if e.Houses != 3 {
		t.Fatalf("houses = %d, want 3", e.Houses)
	}
	// Each sale refunds half the building cost.
	if p1.Money != 1500-5*50+2*25 {
		t.Fatalf("money = %d, want %d", p1.Money, 1500-5*50+2*25)
	}
}

func TestBuildNeedsFullGroup(t *testing.T) {
	g := mustGame(t, 2, nil, nil, nil, engine.Options{})
	g.Ledger().SetOwner("P8", "p1")
	if _, err := g.BuildHouse("p1", "P8"); engine.KindOf(err) != engine.ErrInvalidState {
		t.Fatalf("building without the group should fail, got %v", err)
	}
}

func TestFreeParkingPool(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{FreeParkingPool: true})
		p1 := player(t, g, "p1")
		p1.Position = 1
		mustDo(t)(g.Roll("p1"))
		if p1.Money != 1300 {
			t.Fatalf("p1 money = %d, want 1300 after the tax", p1.Money)
		}
		if g.FreeParkingPool() != 200 {
			t.Fatalf("pool = %d, want 200", g.FreeParkingPool())
		}

		p2 := player(t, g, "p2")
		p2.Position = 17
		events := mustDo(t)(g.Roll("p2"))
		if !hasEvent(events, engine.EventFreeParking) {
			t.Fatalf("expected a free-parking payout, events: %+v", events)
		}
		if p2.Money != 1700 || g.FreeParkingPool() != 0 {
			t.Fatalf("p2 money = %d pool = %d, want 1700 and 0", p2.Money, g.FreeParkingPool())
		}
	})

	t.Run("disabled by default", func(t *testing.T) {
		g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
		p1 := player(t, g, "p1")
		p1.Position = 1
		mustDo(t)(g.Roll("p1"))
		if g.FreeParkingPool() != 0 {
			t.Fatalf("pool = %d, want 0 without the house rule", g.FreeParkingPool())
		}

		p2 := player(t, g, "p2")
		p2.Position = 17
		events := mustDo(t)(g.Roll("p2"))
		if hasEvent(events, engine.EventFreeParking) {
			t.Fatalf("no payout expected, events: %+v", events)
		}
	})
}

func TestGoToJailLanding(t *testing.T) {
	g := mustGame(t, 2, []engine.Roll{{Die1: 1, Die2: 2}}, nil, nil, engine.Options{})
	p1 := player(t, g, "p1")
	p1.Position = 27

	events := mustDo(t)(g.Roll("p1"))
	if !hasEvent(events, engine.EventJailed) {
		t.Fatalf("expected jailing, events: %+v", events)
	}
	if !p1.InJail || p1.Position != 10 {
		t.Fatalf("player = %+v, want jailed at 10", p1)
	}
	if g.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn = %s, want p2", g.CurrentPlayer().ID)
	}
}
