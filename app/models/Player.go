package models

// Player is one lobby membership row: who sits in which game. In-game state
// (money, position, ledger) lives in the engine snapshot on the Game row.
type Player struct {
	User_id  string `json:"user_id"`
	Game_id  string `json:"game_id"`
	Username string `json:"username"`
}

// PlayerDto is the per-player view broadcast to the room.
type PlayerDto struct {
	UserId     string   `json:"user_id"`
	Username   string   `json:"username"`
	Balance    int      `json:"balance"`
	Pos        int      `json:"pos"`
	Jail       bool     `json:"jail"`
	JailCards  int      `json:"jail_cards"`
	Bankrupt   bool     `json:"bankrupt"`
	Properties []string `json:"properties"`
}
