package queries

import (
	"fmt"

	"github.com/gomodule/redigo/redis"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/pkg/engine"
	"github.com/DedS3t/monopoly-engine/platform/cache"
)

// IsUserTurn answers from the redis mirror, saving a lock on the live game
// for the cheap pre-check the socket handlers do before dispatching.
func IsUserTurn(gameID string, userID string, conn redis.Conn) bool {
	val, err := cache.Get(gameID, conn)
	if err != nil {
		return false
	}
	return val == userID
}

// SeatOrder returns the seating order recorded at game start.
func SeatOrder(gameID string, conn redis.Conn) ([]string, error) {
	return cache.LGET(fmt.Sprintf("%s.order", gameID), conn)
}

// SeatCount is the number of seats recorded for the game.
func SeatCount(gameID string, conn redis.Conn) (int, error) {
	return cache.LLEN(fmt.Sprintf("%s.order", gameID), conn)
}

// DropSeat removes a player from the seat order mirror after bankruptcy.
func DropSeat(gameID string, userID string, conn redis.Conn) error {
	if err := cache.LREM(fmt.Sprintf("%s.order", gameID), userID, conn); err != nil {
		return err
	}
	return cache.Del(fmt.Sprintf("%s.%s", gameID, userID), conn)
}

// MirroredBalance reads a player's balance from the mirror.
func MirroredBalance(gameID string, userID string, conn redis.Conn) (string, error) {
	return cache.HGET(fmt.Sprintf("%s.%s", gameID, userID), "bal", conn)
}

// PlayerDtos projects the engine players into the payload broadcast to the
// room after every command.
func PlayerDtos(game *engine.Game) []models.PlayerDto {
	players := game.Players()
	dtos := make([]models.PlayerDto, 0, len(players))
	for _, p := range players {
		dto := models.PlayerDto{
			UserId:    p.ID,
			Username:  p.Name,
			Balance:   p.Money,
			Pos:       p.Position,
			Jail:      p.InJail,
			JailCards: p.JailCards,
			Bankrupt:  p.Bankrupt,
		}
		for _, e := range game.Ledger().OwnedBy(p.ID) {
			dto.Properties = append(dto.Properties, e.Space)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}
