package frontend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// GlobalClientState manages the connection to the server and the board being played.
type GlobalClientState struct {
	Conn  *websocket.Conn
	Board *game.Board
	Error string

	// Request is the last game requested, used to reconnect.
	Request game.NewMessage

	// Listeners for state updates
	Listeners map[string]func()
}

var State *GlobalClientState

func InitState() {
	if State == nil {
		klog.V(1).Infof("InitState: creating new state (was nil)")
		State = &GlobalClientState{
			Listeners: make(map[string]func()),
		}
	} else {
		klog.V(1).Infof("InitState: state already exists")
	}
}

func (s *GlobalClientState) Notify() {
	klog.V(1).Infof("GlobalClientState: Notifying %d listeners", len(s.Listeners))
	for _, l := range s.Listeners {
		if l != nil {
			l()
		}
	}
}

// wsURL returns the WebSocket URL of the server the page was loaded from.
func wsURL(page *url.URL) string {
	scheme := "ws"
	if page.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{Scheme: scheme, Host: page.Host, Path: "/ws"}).String()
}

// ConnectWS connects to the server, if not yet connected, and requests a new game.
func (s *GlobalClientState) ConnectWS(req game.NewMessage) error {
	s.Request = req
	s.Board = nil
	s.Error = ""
	if s.Conn == nil {
		addr := wsURL(app.Window().URL())
		klog.Infof("ConnectWS: Connecting to %s", addr)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		conn, _, err := websocket.Dial(ctx, addr, nil)
		if err != nil {
			klog.Errorf("ConnectWS: Dial failed: %v", err)
			return fmt.Errorf("dial failed: %w", err)
		}
		s.Conn = conn
		go s.readLoop(conn)
	}
	return s.SendNew(req)
}

func (s *GlobalClientState) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	klog.Infof("readLoop: started")
	for {
		var msg game.WsMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			klog.Errorf("readLoop: WS read error: %v", err)
			if s.Conn == conn {
				s.Conn = nil
				s.Error = "Connection to the server lost"
				s.Notify()
			}
			return
		}
		klog.V(1).Infof("readLoop: received message type: %s", msg.Type)
		s.handleMessage(msg)
	}
}

func (s *GlobalClientState) handleMessage(msg game.WsMessage) {
	p, err := msg.Parse()
	if err != nil {
		klog.Errorf("handleMessage: Failed to parse %s message: %v", msg.Type, err)
		return
	}
	switch m := p.(type) {
	case *game.StateMessage:
		klog.V(1).Infof("handleMessage: %s", &m.Board)
		s.Board = &m.Board
		s.Error = ""
	case *game.ErrorMessage:
		klog.Infof("handleMessage: server error: %s", m.Message)
		s.Error = m.Message
	default:
		klog.Errorf("handleMessage: unexpected message %T", p)
		return
	}
	s.Notify()
}

func (s *GlobalClientState) send(msgType game.MessageType, payload any) error {
	if s.Conn == nil {
		return fmt.Errorf("not connected")
	}
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		klog.Errorf("send: Failed to create %s message: %v", msgType, err)
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	if err := wsjson.Write(ctx, s.Conn, msg); err != nil {
		klog.Errorf("send: Failed to send %s message: %v", msgType, err)
		return err
	}
	return nil
}

// SendNew asks the server for a new game.
func (s *GlobalClientState) SendNew(req game.NewMessage) error {
	return s.send(game.MsgTypeNew, req)
}

// SendFlip sends a flip of the card at position, unless the board can't accept it.
// It returns whether the flip was sent.
func (s *GlobalClientState) SendFlip(position int) bool {
	if !CanFlip(s.Board, position) {
		klog.V(1).Infof("SendFlip: ignoring tap on card %d", position)
		return false
	}
	return s.send(game.MsgTypeFlip, game.FlipMessage{Position: position}) == nil
}

// CanFlip reports whether tapping the card at position should be sent to the server:
// the game is not won and the card is face down.
func CanFlip(board *game.Board, position int) bool {
	if board == nil || board.Won {
		return false
	}
	if position < 0 || position >= len(board.Cards) {
		return false
	}
	return !board.IsFaceUp(position)
}
