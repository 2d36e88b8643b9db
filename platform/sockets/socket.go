package socket

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/gomodule/redigo/redis"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/pkg/engine"
	"github.com/DedS3t/monopoly-engine/platform/cache"
	"github.com/DedS3t/monopoly-engine/platform/database"
	"github.com/DedS3t/monopoly-engine/platform/queries"
	"github.com/DedS3t/monopoly-engine/platform/registry"
)

// auctionTimeout is the bidding window. When it fires the auction closes
// deterministically; bids arriving afterwards fail inside the engine.
const auctionTimeout = 30 * time.Second

type hub struct {
	server *socketio.Server
	db     *pg.DB
	pool   *redis.Pool
	games  *registry.Registry
}

// run executes one engine command under the game's lock, persists the
// snapshot, refreshes the redis mirror and broadcasts the results. s may be
// nil for timer-driven commands.
func (h *hub) run(s socketio.Conn, gameID string, action func(*engine.Game) ([]engine.Event, error)) error {
	return h.games.With(gameID, func(game *engine.Game) error {
		events, err := action(game)
		if err != nil {
			if s != nil {
				s.Emit("error-message", err.Error())
			}
			return nil
		}
		if err := queries.SaveGame(game, h.db); err != nil {
			logrus.WithError(err).WithField("game", gameID).Error("snapshot write failed")
			if s != nil {
				s.Emit("error-message", "saving the game failed, state may be stale after a restart")
			}
		}
		conn := h.pool.Get()
		defer conn.Close()
		queries.SyncRedisMirror(game, conn)

		for _, ev := range events {
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			h.server.BroadcastToRoom("/", gameID, "game-event", string(payload))
			switch ev.Type {
			case engine.EventTurnChanged:
				h.server.BroadcastToRoom("/", gameID, "change-turn", ev.Player)
			case engine.EventAuctionStarted:
				h.scheduleAuctionClose(gameID)
			case engine.EventBankrupt:
				if err := queries.DropSeat(gameID, ev.Player, conn); err != nil {
					logrus.WithError(err).WithField("game", gameID).Warn("seat cleanup failed")
				}
			}
		}
		h.broadcastState(gameID, game)
		if game.Over() {
			queries.FinishGame(game, h.db, conn)
			h.server.BroadcastToRoom("/", gameID, "game-over", game.Winner())
			h.games.Remove(gameID)
		}
		return nil
	})
}

// dispatch is run plus snapshot resurrection after a process restart.
func (h *hub) dispatch(s socketio.Conn, gameID string, action func(*engine.Game) ([]engine.Event, error)) {
	if err := h.run(s, gameID, action); err == registry.ErrNotFound {
		game, loadErr := queries.LoadGame(gameID, h.db)
		if loadErr != nil {
			s.Emit("error-message", "Game is not running")
			return
		}
		h.games.Put(game)
		h.run(s, gameID, action)
	}
}

// scheduleAuctionClose arms the bidding deadline. The close goes through the
// same per-game lock as bids, so a late bid either lands before the close or
// is rejected after it.
func (h *hub) scheduleAuctionClose(gameID string) {
	time.AfterFunc(auctionTimeout, func() {
		err := h.run(nil, gameID, func(g *engine.Game) ([]engine.Event, error) {
			if g.AuctionState() == nil {
				// Already closed by an earlier timer or the game ended.
				return nil, nil
			}
			return g.CloseAuction()
		})
		if err != nil && err != registry.ErrNotFound {
			logrus.WithError(err).WithField("game", gameID).Warn("auction close failed")
		}
	})
}

// broadcastState pushes the full per-player view after every command.
func (h *hub) broadcastState(gameID string, game *engine.Game) {
	dtos, err := json.Marshal(queries.PlayerDtos(game))
	if err != nil {
		return
	}
	h.server.BroadcastToRoom("/", gameID, "game-state", string(dtos))
}

// CreateSocketIOServer runs the realtime command surface. Every game is a
// room keyed by its id; commands carry {"game_id": ..., "user_id": ...}
// plus command-specific fields, and results are broadcast to the room as
// engine events.
func CreateSocketIOServer() {
	server, err := socketio.NewServer(nil)
	if err != nil {
		panic(err)
	}
	db := database.PostgreSQLConnection()
	defer db.Close()

	pool := cache.CreateRedisPool()
	defer pool.Close()

	h := &hub{server: server, db: db, pool: pool, games: registry.New()}

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	server.OnEvent("/", "join-game", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		gameID, ok := result["game_id"]
		if !ok {
			s.Emit("error-message", "game_id not passed")
			return
		}
		if !queries.VerifyGame(gameID, db) {
			s.Emit("error-message", "Invalid game")
			s.Emit("failed")
			return
		}
		userID, ok := result["user_id"]
		if !ok {
			s.Emit("error-message", "User not authenticated")
			s.Emit("failed")
			return
		}
		user, err := queries.GetUserData(userID, db)
		if err != nil {
			s.Emit("error-message", "User retrieval failed")
			s.Emit("failed")
			return
		}
		err = queries.CreatePlayer(models.Player{
			Game_id:  gameID,
			User_id:  userID,
			Username: user.Email,
		}, db)
		if err != nil {
			s.Emit("error-message", "Failed creating player")
			s.Emit("failed")
			return
		}
		server.BroadcastToRoom("/", gameID, "player-join", userID)
		s.Join(gameID)
		s.Emit("joined-game", strconv.Itoa(server.RoomLen("/", gameID)))
	})

	server.OnEvent("/", "leave-game", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		gameID := result["game_id"]
		s.Leave(gameID)
		if err := queries.DeletePlayer(result["user_id"], gameID, db); err != nil {
			logrus.WithError(err).Warn("lobby leave failed")
		}
		queries.CheckDB(gameID, db)
		server.BroadcastToRoom("/", gameID, "player-left", result["user_id"])
	})

	server.OnEvent("/", "start-game", func(s socketio.Conn, gameID string) {
		conn := pool.Get()
		defer conn.Close()
		game, err := queries.StartGame(gameID, db, conn)
		if err != nil {
			logrus.WithError(err).WithField("game", gameID).Info("start rejected")
			s.Emit("error-message", "Unable to start game")
			return
		}
		h.games.Put(game)
		dtos, _ := json.Marshal(queries.PlayerDtos(game))
		server.BroadcastToRoom("/", gameID, "game-start", string(dtos))
		server.BroadcastToRoom("/", gameID, "change-turn", game.CurrentPlayer().ID)
	})

	server.OnEvent("/", "roll-dice", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.Roll(result["user_id"])
		})
	})

	server.OnEvent("/", "request-buy", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.Buy(result["user_id"])
		})
	})

	server.OnEvent("/", "decline-buy", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.DeclineAndAuction(result["user_id"])
		})
	})

	server.OnEvent("/", "place-bid", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		amount, err := strconv.Atoi(result["amount"])
		if err != nil {
			s.Emit("error-message", "Bid amount must be a number")
			return
		}
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.Bid(result["user_id"], amount)
		})
	})

	server.OnEvent("/", "pay-out-jail", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.PayJailFine(result["user_id"])
		})
	})

	server.OnEvent("/", "use-jail-card", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.UseJailCard(result["user_id"])
		})
	})

	server.OnEvent("/", "mortgage", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.Mortgage(result["user_id"], result["space"])
		})
	})

	server.OnEvent("/", "unmortgage", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.Unmortgage(result["user_id"], result["space"])
		})
	})

	server.OnEvent("/", "buy-house", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.BuildHouse(result["user_id"], result["space"])
		})
	})

	server.OnEvent("/", "buy-hotel", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.BuildHotel(result["user_id"], result["space"])
		})
	})

	server.OnEvent("/", "sell-house", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.SellHouse(result["user_id"], result["space"])
		})
	})

	server.OnEvent("/", "sell-hotel", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.SellHotel(result["user_id"], result["space"])
		})
	})

	server.OnEvent("/", "propose-trade", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		price, err := strconv.Atoi(result["price"])
		if err != nil {
			s.Emit("error-message", "Trade price must be a number")
			return
		}
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.ProposeTrade(result["user_id"], result["to"], result["space"], price)
		})
	})

	server.OnEvent("/", "accept-trade", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.AcceptTrade(result["user_id"])
		})
	})

	server.OnEvent("/", "decline-trade", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.DeclineTrade(result["user_id"])
		})
	})

	server.OnEvent("/", "declare-bankruptcy", func(s socketio.Conn, jsonStr string) {
		result := parse(jsonStr)
		var beneficiaries []string
		if raw, ok := result["beneficiaries"]; ok && raw != "" {
			if err := json.Unmarshal([]byte(raw), &beneficiaries); err != nil {
				s.Emit("error-message", "beneficiaries must be a JSON array of user ids")
				return
			}
		}
		h.dispatch(s, result["game_id"], func(g *engine.Game) ([]engine.Event, error) {
			return g.DeclareBankruptcy(result["user_id"], beneficiaries)
		})
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logrus.WithError(e).Warn("socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		for _, room := range s.Rooms() {
			server.BroadcastToRoom("/", room, "player-left")
		}
		s.LeaveAll()
	})

	go server.Serve()
	defer server.Close()

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	if err := http.ListenAndServe(":8000", c.Handler(mux)); err != nil {
		logrus.WithError(err).Fatal("socket server stopped")
	}
}

func parse(jsonStr string) map[string]string {
	result := make(map[string]string)
	json.Unmarshal([]byte(jsonStr), &result)
	return result
}
