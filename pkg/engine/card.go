package engine

// CardKind is the closed set of card effects. The resolver in game.go
// switches exhaustively over these.
type CardKind string

const (
	// CardAdvance moves to the named space, collecting the Go bonus when the
	// move wraps past Go.
	CardAdvance CardKind = "advance"
	// CardAdvanceNearestRailroad / Utility move forward to the closest space
	// of that kind, wrapping (and paying the bonus) if needed.
	CardAdvanceNearestRailroad CardKind = "advance-nearest-railroad"
	CardAdvanceNearestUtility  CardKind = "advance-nearest-utility"
	// CardCollect / CardPay move a fixed amount between player and bank.
	CardCollect CardKind = "collect"
	CardPay     CardKind = "pay"
	// CardPayEachPlayer: the drawer pays Amount to every other active player.
	// CardCollectEachPlayer: every other active player pays Amount to the drawer.
	CardPayEachPlayer     CardKind = "pay-each-player"
	CardCollectEachPlayer CardKind = "collect-each-player"
	CardGoToJail          CardKind = "go-to-jail"
	CardGetOutOfJail      CardKind = "get-out-of-jail-free"
	// CardMoveBack moves the player Amount spaces backwards. The landing
	// effect is re-applied at the new position, but card spaces do not
	// trigger a second draw.
	CardMoveBack CardKind = "move-back"
	// CardRepairs charges HouseRate per house and HotelRate per hotel across
	// everything the drawer owns.
	CardRepairs CardKind = "repairs"
)

// Card is one chance or community-chest card. Immutable once loaded.
type Card struct {
	Kind        CardKind `json:"kind"`
	Description string   `json:"description"`
	Amount      int      `json:"amount,omitempty"`
	Dest        string   `json:"dest,omitempty"`
	HouseRate   int      `json:"house_rate,omitempty"`
	HotelRate   int      `json:"hotel_rate,omitempty"`
}
