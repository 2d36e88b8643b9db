package queries

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/pkg/engine"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/cache"
)

func VerifyGame(id string, db *pg.DB) bool {
	game := &models.Game{Id: id}
	return db.Model(game).WherePK().Select() == nil
}

func GetUserData(userID string, db *pg.DB) (*models.User, error) {
	user := &models.User{Id: userID}
	if err := db.Model(user).WherePK().Select(); err != nil {
		return nil, err
	}
	return user, nil
}

func CreatePlayer(player models.Player, db *pg.DB) error {
	_, err := db.Model(&player).Insert()
	return err
}

// DeletePlayer removes a lobby membership. Leaving a running game is
// handled through bankruptcy, not here.
func DeletePlayer(userID string, gameID string, db *pg.DB) error {
	player := new(models.Player)
	_, err := db.Model(player).Where("user_id = ? and game_id = ?", userID, gameID).Delete()
	return err
}

// StartGame builds the engine game from the lobby roster, persists the
// first snapshot and seeds the redis mirror. Returns an error with fewer
// than two seated players.
func StartGame(gameID string, db *pg.DB, conn redis.Conn) (*engine.Game, error) {
	gameRow := &models.Game{Id: gameID}
	if err := db.Model(gameRow).WherePK().Select(); err != nil {
		return nil, fmt.Errorf("queries: loading game %s: %w", gameID, err)
	}
	if gameRow.Status != models.GameStatusLobby {
		return nil, fmt.Errorf("queries: game %s already started", gameID)
	}

	var players []models.Player
	if err := db.Model(&players).Where("game_id = ?", gameID).Select(); err != nil {
		return nil, fmt.Errorf("queries: loading players of %s: %w", gameID, err)
	}
	if len(players) < engine.MinPlayers {
		return nil, fmt.Errorf("queries: game %s needs at least %d players", gameID, engine.MinPlayers)
	}

	seats := make([]engine.Seat, len(players))
	for i, p := range players {
		seats[i] = engine.Seat{ID: p.User_id, Name: p.Username}
	}

	edition := gameRow.Edition
	if edition == "" {
		edition = board.EditionUS
	}
	gameBoard, err := board.LoadBoard(edition)
	if err != nil {
		return nil, err
	}
	chanceCards, err := board.LoadChanceCards()
	if err != nil {
		return nil, err
	}
	communityCards, err := board.LoadCommunityCards()
	if err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	game, err := engine.NewGame(gameID, gameBoard, chanceCards, communityCards, seats,
		engine.NewRoller(seed), rand.New(rand.NewSource(seed)), engine.Options{})
	if err != nil {
		return nil, err
	}

	gameRow.Status = models.GameStatusInProgress
	if _, err := db.Model(gameRow).WherePK().Column("status").Update(); err != nil {
		return nil, fmt.Errorf("queries: starting game %s: %w", gameID, err)
	}
	if err := SaveGame(game, db); err != nil {
		return nil, err
	}

	seedRedisMirror(game, conn)
	return game, nil
}

// SaveGame writes the engine snapshot to the games row. Called after every
// mutating command; a failure is surfaced so the command layer can report
// it, but the in-memory game keeps the mutation (last writer wins).
func SaveGame(game *engine.Game, db *pg.DB) error {
	state, err := json.Marshal(game.Snapshot())
	if err != nil {
		return fmt.Errorf("queries: encoding snapshot of %s: %w", game.ID(), err)
	}
	row := &models.Game{Id: game.ID(), State: state}
	if _, err := db.Model(row).WherePK().Column("state").Update(); err != nil {
		return fmt.Errorf("queries: persisting game %s: %w", game.ID(), err)
	}
	return nil
}

// LoadGame resurrects a running game from its persisted snapshot.
func LoadGame(gameID string, db *pg.DB) (*engine.Game, error) {
	gameRow := &models.Game{Id: gameID}
	if err := db.Model(gameRow).WherePK().Select(); err != nil {
		return nil, fmt.Errorf("queries: loading game %s: %w", gameID, err)
	}
	if len(gameRow.State) == 0 {
		return nil, fmt.Errorf("queries: game %s has no saved state", gameID)
	}
	var rec engine.GameRecord
	if err := json.Unmarshal(gameRow.State, &rec); err != nil {
		return nil, fmt.Errorf("queries: decoding snapshot of %s: %w", gameID, err)
	}
	edition := gameRow.Edition
	if edition == "" {
		edition = board.EditionUS
	}
	gameBoard, err := board.LoadBoard(edition)
	if err != nil {
		return nil, err
	}
	return engine.Restore(&rec, gameBoard, engine.NewRoller(time.Now().UnixNano()))
}

// FinishGame marks the row finished and clears the redis mirror.
func FinishGame(game *engine.Game, db *pg.DB, conn redis.Conn) {
	row := &models.Game{Id: game.ID(), Status: models.GameStatusFinished}
	if _, err := db.Model(row).WherePK().Column("status").Update(); err != nil {
		logrus.WithError(err).WithField("game", game.ID()).Error("failed to mark game finished")
	}
	cleanupRedisMirror(game, conn)
}

// CheckDB drops a game row once its last player left the lobby.
func CheckDB(gameID string, db *pg.DB) {
	var players []models.Player
	err := db.Model(&players).Where("game_id = ?", gameID).Select()
	if err != nil || len(players) == 0 {
		game := new(models.Game)
		if _, err := db.Model(game).Where("id = ?", gameID).Delete(); err != nil {
			logrus.WithError(err).WithField("game", gameID).Warn("failed to delete empty game")
		}
	}
}

// seedRedisMirror writes the read-only lobby mirror clients poll on
// reconnect: seat order, current turn and per-player display state.
func seedRedisMirror(game *engine.Game, conn redis.Conn) {
	var ids []interface{}
	for _, p := range game.Players() {
		ids = append(ids, p.ID)
	}
	if err := cache.RPUSH(fmt.Sprintf("%s.order", game.ID()), ids, conn); err != nil {
		logrus.WithError(err).WithField("game", game.ID()).Warn("failed seeding seat order")
	}
	SyncRedisMirror(game, conn)
}

// SyncRedisMirror refreshes the mirror after a command.
func SyncRedisMirror(game *engine.Game, conn redis.Conn) {
	if err := cache.Set(game.ID(), game.CurrentPlayer().ID, conn); err != nil {
		logrus.WithError(err).WithField("game", game.ID()).Warn("failed mirroring current turn")
	}
	for _, dto := range PlayerDtos(game) {
		key := fmt.Sprintf("%s.%s", game.ID(), dto.UserId)
		if err := cache.HSET(key, "bal", dto.Balance, conn); err != nil {
			logrus.WithError(err).WithField("game", game.ID()).Warn("failed mirroring balance")
			continue
		}
		cache.HSET(key, "pos", dto.Pos, conn)
		cache.HSET(key, "jail", dto.Jail, conn)
	}
}

func cleanupRedisMirror(game *engine.Game, conn redis.Conn) {
	for _, p := range game.Players() {
		cache.Del(fmt.Sprintf("%s.%s", game.ID(), p.ID), conn)
	}
	cache.Del(game.ID(), conn)
	cache.Del(fmt.Sprintf("%s.order", game.ID()), conn)
}
