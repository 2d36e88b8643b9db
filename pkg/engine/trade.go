package engine

import "fmt"

// Trade is a standing offer from one player to sell another a single
// property for cash. One offer can be open per game at a time; it stays open
// until the recipient accepts it or either side withdraws it.
type Trade struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Space string `json:"space"`
	Price int    `json:"price"`
}

// TradeState returns a copy of the open trade offer, or nil.
func (g *Game) TradeState() *Trade {
	if g.trade == nil {
		return nil
	}
	tr := *g.trade
	return &tr
}

// ProposeTrade opens an offer to sell spaceName to another player for price.
// The proposer must own the space and it must carry no buildings; a mortgaged
// property transfers with its mortgage intact.
func (g *Game) ProposeTrade(fromID, toID, spaceName string, price int) ([]Event, error) {
	if g.over {
		return nil, newError(ErrGameAlreadyOver, "the game is over, %s won", g.winner)
	}
	from, err := g.PlayerByID(fromID)
	if err != nil {
		return nil, err
	}
	to, err := g.PlayerByID(toID)
	if err != nil {
		return nil, err
	}
	if from.Bankrupt || to.Bankrupt {
		return nil, newError(ErrInvalidState, "bankrupt players cannot trade")
	}
	if from.ID == to.ID {
		return nil, newError(ErrInvalidState, "%s cannot trade with themselves", from.Name)
	}
	if price < 0 {
		return nil, newError(ErrInvalidState, "the price cannot be negative")
	}
	if g.trade != nil {
		return nil, newError(ErrInvalidState, "an offer for %s is already open", g.trade.Space)
	}
	e, err := g.ledger.Entry(spaceName)
	if err != nil {
		return nil, err
	}
	if e.Owner != from.ID {
		return nil, newError(ErrInvalidState, "%s does not own %s", from.Name, spaceName)
	}
	if e.Developed() {
		return nil, newError(ErrInvalidState, "sell the buildings on %s before trading it", spaceName)
	}
	g.trade = &Trade{From: from.ID, To: to.ID, Space: spaceName, Price: price}
	return []Event{{
		Type: EventTradeProposed, Player: from.ID, Space: spaceName, Amount: price,
		Description: fmt.Sprintf("%s offered %s to %s for %d", from.Name, spaceName, to.Name, price),
	}}, nil
}

// AcceptTrade settles the open offer: the recipient pays the price and takes
// the property, mortgage flag intact. Ownership and funds are re-checked at
// settlement since both can change while the offer stands.
func (g *Game) AcceptTrade(playerID string) ([]Event, error) {
	if g.over {
		return nil, newError(ErrGameAlreadyOver, "the game is over, %s won", g.winner)
	}
	if g.trade == nil {
		return nil, newError(ErrInvalidState, "no trade offer is open")
	}
	tr := g.trade
	if tr.To != playerID {
		return nil, newError(ErrInvalidState, "the offer for %s is not addressed to you", tr.Space)
	}
	from, err := g.PlayerByID(tr.From)
	if err != nil {
		return nil, err
	}
	to, err := g.PlayerByID(tr.To)
	if err != nil {
		return nil, err
	}
	e, err := g.ledger.Entry(tr.Space)
	if err != nil {
		return nil, err
	}
	if e.Owner != from.ID {
		g.trade = nil
		return nil, newError(ErrInvalidState, "%s no longer owns %s", from.Name, tr.Space)
	}
	if !to.CanAfford(tr.Price) {
		return nil, newError(ErrInsufficientFunds, "%s cannot pay %d for %s", to.Name, tr.Price, tr.Space)
	}
	g.trade = nil
	to.Money -= tr.Price
	from.Money += tr.Price
	if err := g.ledger.Transfer(tr.Space, to.ID); err != nil {
		return nil, err
	}
	return []Event{{
		Type: EventTradeAccepted, Player: to.ID, Space: tr.Space, Amount: tr.Price,
		Description: fmt.Sprintf("%s bought %s from %s for %d", to.Name, tr.Space, from.Name, tr.Price),
	}}, nil
}

// DeclineTrade withdraws the open offer. The recipient rejects it, or the
// proposer takes it back.
func (g *Game) DeclineTrade(playerID string) ([]Event, error) {
	if g.over {
		return nil, newError(ErrGameAlreadyOver, "the game is over, %s won", g.winner)
	}
	if g.trade == nil {
		return nil, newError(ErrInvalidState, "no trade offer is open")
	}
	tr := g.trade
	if playerID != tr.From && playerID != tr.To {
		return nil, newError(ErrInvalidState, "the offer for %s does not involve you", tr.Space)
	}
	p, err := g.PlayerByID(playerID)
	if err != nil {
		return nil, err
	}
	g.trade = nil
	return []Event{{
		Type: EventTradeDeclined, Player: p.ID, Space: tr.Space,
		Description: fmt.Sprintf("%s declined the offer for %s", p.Name, tr.Space),
	}}, nil
}
