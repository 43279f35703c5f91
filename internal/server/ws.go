package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoMemory/internal/boards"
	"github.com/janpfeifer/GoMemory/internal/game"
	"k8s.io/klog/v2"
)

const writeTimeout = 5 * time.Second

// HandleWS serves one play session over a WebSocket connection.
// Errors of individual requests are reported back to the client, and the
// connection stays open.
func (s *ServerState) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		klog.Errorf("HandleWS: failed to accept connection: %v", err)
		return
	}
	defer conn.CloseNow()

	session := NewSession(nil)
	s.addSession(session)
	defer s.removeSession(session)
	klog.V(1).Infof("HandleWS: session started from %s", r.RemoteAddr)

	ctx := r.Context()
	for {
		var msg game.WsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				klog.Errorf("HandleWS: read error: %v", err)
			}
			return
		}
		reply := s.handleMessage(ctx, session, msg)
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(writeCtx, conn, reply)
		cancel()
		if err != nil {
			klog.Errorf("HandleWS: write error: %v", err)
			return
		}
	}
}

// handleMessage processes one client message and returns the reply to send.
func (s *ServerState) handleMessage(ctx context.Context, session *Session, msg game.WsMessage) game.WsMessage {
	p, err := msg.Parse()
	if err != nil {
		return errorMessage(err)
	}

	var board game.Board
	switch m := p.(type) {
	case *game.NewMessage:
		board, err = s.startGame(ctx, session, m)
	case *game.FlipMessage:
		board, err = session.Flip(m.Position)
		if err == nil {
			klog.V(2).Infof("HandleWS: flip %d: %s", m.Position, &board)
		}
	default:
		err = errors.New("unexpected message type " + string(msg.Type))
	}
	if err != nil {
		return errorMessage(err)
	}

	reply, err := game.NewWsMessage(game.MsgTypeState, game.StateMessage{Board: board})
	if err != nil {
		return errorMessage(err)
	}
	return reply
}

func (s *ServerState) startGame(ctx context.Context, session *Session, m *game.NewMessage) (game.Board, error) {
	if m.GameName == "" {
		size := s.Config.DefaultSize
		if m.Size != nil {
			size = *m.Size
		}
		klog.V(1).Infof("HandleWS: new %s game", size)
		return session.Start(size, "", nil)
	}

	var custom boards.Board
	var err error
	if s.Boards == nil {
		err = errors.New("custom games not available")
	} else {
		custom, err = s.Boards.Download(ctx, m.GameName)
	}
	if err != nil {
		return game.Board{}, err
	}
	klog.Infof("HandleWS: playing custom game %q (%s)", custom.Name, custom.Size)
	return session.Start(custom.Size, custom.Name, custom.Images)
}

func errorMessage(err error) game.WsMessage {
	klog.V(1).Infof("HandleWS: replying with error: %v", err)
	msg, _ := game.NewWsMessage(game.MsgTypeError, game.ErrorMessage{Message: err.Error()})
	return msg
}
