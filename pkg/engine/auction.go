package engine

// Auction is the short-lived bidding protocol for a declined or unaffordable
// property. Bids arrive through Game.Bid so funds can be checked; the
// deadline timer lives in the transport layer, which calls Game.CloseAuction
// when it fires.
type Auction struct {
	Space         string `json:"space"`
	MinBid        int    `json:"minBid"`
	HighestBid    int    `json:"highestBid"`
	HighestBidder string `json:"highestBidder,omitempty"`
}

func newAuction(space string, minBid int) *Auction {
	return &Auction{Space: space, MinBid: minBid}
}

// bid records a strictly-higher bid. Rejected bids leave the auction
// untouched.
func (a *Auction) bid(playerID string, amount int) error {
	if amount < a.MinBid {
		return newError(ErrInvalidState, "bids for %s start at %d", a.Space, a.MinBid)
	}
	if amount <= a.HighestBid {
		return newError(ErrInvalidState, "bid of %d does not beat the current %d", amount, a.HighestBid)
	}
	a.HighestBid = amount
	a.HighestBidder = playerID
	return nil
}
