package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/pkg"
	"github.com/DedS3t/monopoly-engine/platform/cache"
	"github.com/DedS3t/monopoly-engine/platform/database"
	"github.com/DedS3t/monopoly-engine/platform/queries"
)

var redisPool = cache.CreateRedisPool()

func CreateGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	gameCreateDto := new(models.GameCreateDto)
	if err := c.BodyParser(gameCreateDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	game := &models.Game{
		Id:      pkg.RandString(8),
		Name:    gameCreateDto.Name,
		Status:  models.GameStatusLobby,
		Edition: gameCreateDto.Edition,
	}

	if _, err := db.Model(game).Insert(); err != nil {
		logrus.WithError(err).Error("failed creating game")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"id": game.Id})
}

func GetAllAvailGames(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	var games []models.Game
	if err := db.Model(&games).Where("status = ?", models.GameStatusLobby).Select(); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(games)
}

// FindAvailGame picks one joinable lobby, for a quick-play button.
func FindAvailGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	game := new(models.Game)
	err := db.Model(game).Where("status = ?", models.GameStatusLobby).Limit(1).Select()
	if err != nil {
		return c.JSON(fiber.Map{"id": nil})
	}
	return c.JSON(fiber.Map{"id": game.Id})
}

func VerifyGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	game := &models.Game{Id: verifyGameDto.Code}
	if err := db.Model(game).WherePK().Select(); err != nil {
		return c.JSON(fiber.Map{"status": false})
	}
	return c.JSON(fiber.Map{"status": true})
}

// GameMirror serves the redis read-model of a running game: seat order,
// whose turn it is and each player's mirrored balance. Reconnecting clients
// poll this instead of locking the live game.
func GameMirror(c *fiber.Ctx) error {
	gameID := c.Query("code")
	if gameID == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	conn := redisPool.Get()
	defer conn.Close()

	order, err := queries.SeatOrder(gameID, conn)
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	count, err := queries.SeatCount(gameID, conn)
	if err != nil || count == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}
	balances := make(map[string]string, len(order))
	for _, id := range order {
		bal, err := queries.MirroredBalance(gameID, id, conn)
		if err != nil {
			continue
		}
		balances[id] = bal
	}
	var turn string
	for _, id := range order {
		if queries.IsUserTurn(gameID, id, conn) {
			turn = id
			break
		}
	}
	return c.JSON(fiber.Map{
		"order":    order,
		"players":  count,
		"turn":     turn,
		"balances": balances,
	})
}
