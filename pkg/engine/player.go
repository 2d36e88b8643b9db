package engine

// Player is the mutable per-participant record. It has no reference back to
// the game; ownership lives in the Ledger and sequencing in the TurnManager.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Money        int    `json:"money"`
	Position     int    `json:"position"`
	InJail       bool   `json:"inJail"`
	JailTurns    int    `json:"jailTurns"`
	DoublesCount int    `json:"doublesCount"`
	JailCards    int    `json:"getOutOfJailFreeCards"`
	Bankrupt     bool   `json:"isBankrupt"`
}

// CanAfford reports whether the player can pay the amount outright.
func (p *Player) CanAfford(amount int) bool {
	return p.Money >= amount
}

// sendToJail applies the jail-entry transition: the triggering move is
// cancelled, only the position jump happens.
func (p *Player) sendToJail(jailPos int) {
	p.InJail = true
	p.Position = jailPos
	p.JailTurns = 0
	p.DoublesCount = 0
}

// releaseFromJail clears jail state without moving the player.
func (p *Player) releaseFromJail() {
	p.InJail = false
	p.JailTurns = 0
}
