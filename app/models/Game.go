package models

import "encoding/json"

// Game lifecycle states as stored in postgres.
const (
	GameStatusLobby      = "lobby"
	GameStatusInProgress = "in progress"
	GameStatusFinished   = "finished"
)

type Game struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Edition string `json:"edition"`
	// State is the engine snapshot (engine.GameRecord) as JSONB, written
	// after every mutating command and used to resume after a restart.
	State json.RawMessage `pg:",type:jsonb" json:"-"`
}

type GameCreateDto struct {
	Name    string `json:"name"`
	Edition string `json:"edition"`
}

type VerifyGameDto struct {
	Code    string `query:"code"`
	User_id string `query:"user_id"`
}
