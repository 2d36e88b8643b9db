package engine

// EventType names every structured result the engine can emit.
type EventType string

const (
	EventRolled         EventType = "rolled"
	EventMoved          EventType = "moved"
	EventPassedGo       EventType = "passed-go"
	EventPurchaseOffer  EventType = "purchase-offer"
	EventPurchased      EventType = "purchased"
	EventRentPaid       EventType = "rent-paid"
	EventTaxPaid        EventType = "tax-paid"
	EventCardDrawn      EventType = "card-drawn"
	EventCollected      EventType = "collected"
	EventPaid           EventType = "paid"
	EventJailed         EventType = "jailed"
	EventFreed          EventType = "freed"
	EventJailStay       EventType = "jail-stay"
	EventAuctionStarted EventType = "auction-started"
	EventBidPlaced      EventType = "bid-placed"
	EventAuctionWon     EventType = "auction-won"
	EventAuctionPassed  EventType = "auction-passed"
	EventMortgaged      EventType = "mortgaged"
	EventUnmortgaged    EventType = "unmortgaged"
	EventHouseBuilt     EventType = "house-built"
	EventHotelBuilt     EventType = "hotel-built"
	EventHouseSold      EventType = "house-sold"
	EventHotelSold      EventType = "hotel-sold"
	EventTradeProposed  EventType = "trade-proposed"
	EventTradeAccepted  EventType = "trade-accepted"
	EventTradeDeclined  EventType = "trade-declined"
	EventFreeParking    EventType = "free-parking"
	EventBankrupt       EventType = "bankrupt"
	EventTurnChanged    EventType = "turn-changed"
	EventGameOver       EventType = "game-over"
)

// Event is a descriptive result payload handed to the presentation layer.
// The engine does not format beyond the description string.
type Event struct {
	Type        EventType `json:"type"`
	Player      string    `json:"player,omitempty"`
	Space       string    `json:"space,omitempty"`
	Amount      int       `json:"amount,omitempty"`
	Roll        *Roll     `json:"roll,omitempty"`
	Description string    `json:"description"`
}
