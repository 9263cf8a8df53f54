package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/lobby"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
)

const maxBatchSize = 1 << 16

type GameHandler struct {
	log      *logrus.Logger
	registry *lobby.Registry
	jwt      *config.JWT
	dec      *schema.Decoder
	upgrader websocket.Upgrader
}

func NewGameHandler(
	log *logrus.Logger, registry *lobby.Registry, jwt *config.JWT,
) *GameHandler {
	handler := &GameHandler{
		log:      log,
		registry: registry,
		jwt:      jwt,
		dec:      newDecoder(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				log.Debug("ws origin: ", r.Header.Get("Origin"))
				return true
			},
		},
	}
	return handler
}

// sessionID reads the path id and checks that the request carries a token
// for that session.
func (g GameHandler) sessionID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", lobby.ErrSessionNotFound, r.PathValue("id"))
	}
	claims, ok := middleware.SessionClaims(r.Context())
	if !ok || claims.SessionId != id {
		return 0, ErrUnauthorized
	}
	return id, nil
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := decode[NewGameDTO](g.dec, r.URL.Query())
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	params, err := dto.Params()
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	session, err := g.registry.New(r.Context(), params)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	token, err := g.jwt.Sign(session.ID)
	if err != nil {
		sendError(w, g.log, fmt.Errorf("unable to sign session token: %w", err))
		return
	}
	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, g.log, NewGameResponse{Token: token, Session: session})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(w, g.log, fmt.Errorf("%w: invalid id", lobby.ErrSessionNotFound))
		return
	}
	session, err := g.registry.Get(r.Context(), id)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, session)
}

type positionMove func(ctx context.Context, id int64, row, col int) (*lobby.Session, error)

func (g GameHandler) handlePosition(move positionMove) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := g.sessionID(r)
		if err != nil {
			sendError(w, g.log, err)
			return
		}
		pos, err := decode[PositionDTO](g.dec, r.URL.Query())
		if err != nil {
			sendError(w, g.log, err)
			return
		}
		session, err := move(r.Context(), id, pos.Row, pos.Col)
		if err != nil {
			sendError(w, g.log, err)
			return
		}
		sendJSONOrLog(w, g.log, session)
	}
}

func (g GameHandler) Open(w http.ResponseWriter, r *http.Request) {
	g.handlePosition(g.registry.Reveal)(w, r)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.handlePosition(g.registry.ToggleFlag)(w, r)
}

func (g GameHandler) Chord(w http.ResponseWriter, r *http.Request) {
	g.handlePosition(g.registry.Chord)(w, r)
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	id, err := g.sessionID(r)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	session, err := g.registry.Forfeit(r.Context(), id)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, session)
}

// Batch accepts newline-separated commands in the body:
//
//	o r c // open the cell at r:c
//	f r c // flag the cell at r:c
//	c r c // chord the cell at r:c
//
// Commands run in order and stop at game over. If any command fails, nothing
// is saved and the response carries the failing line, counting from 1.
func (g GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	id, err := g.sessionID(r)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBatchSize))
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	session, err := g.registry.Batch(r.Context(), id, string(body))
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, session)
}

// ConnectWS streams batches: every text frame is run as a batch and answered
// with the session, or with {"error": ...} if it failed. The connection
// closes once the game is over.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, err := g.sessionID(r)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	if _, err := g.registry.Get(r.Context(), id); err != nil {
		sendError(w, g.log, err)
		return
	}
	c, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade: ", err)
		return
	}
	defer c.Close()

	log := g.log.WithField("session_id", id)
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read: ", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			log.Debug("ignoring non-text frame")
			continue
		}
		text := strings.TrimSpace(string(message))
		log.Debug("> ", text)

		session, err := g.registry.Batch(r.Context(), id, text)
		var reply any = session
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				log.WithError(err).Error("batch failed")
			}
			reply = wrapError(err)
		}
		if err := c.WriteJSON(reply); err != nil {
			log.Error("write: ", err)
			return
		}
		if session != nil && session.Snapshot.Outcome != mines.InProgress {
			_ = c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
			return
		}
	}
}
