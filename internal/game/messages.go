package game

import (
	"encoding/json"
	"fmt"
)

// Message type for WebSocket communication between client and server.
type MessageType string

const (
	MsgTypeNew   MessageType = "new"   // Client wants to start a new game
	MsgTypeFlip  MessageType = "flip"  // Client taps a card
	MsgTypeState MessageType = "state" // Server sends the full board state
	MsgTypeError MessageType = "error" // Server sends an error message
)

// WsMessage represents a WebSocket message.
type WsMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewWsMessage creates a new WsMessage with a marshaled payload.
func NewWsMessage(msgType MessageType, payload interface{}) (WsMessage, error) {
	if payload == nil {
		return WsMessage{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return WsMessage{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return WsMessage{
		Type:    msgType,
		Payload: payloadBytes,
	}, nil
}

// Parse unmarshals the message payload into one of the message types (NewMessage, FlipMessage, etc.)
func (m *WsMessage) Parse() (any, error) {
	var target any
	switch m.Type {
	case MsgTypeNew:
		target = &NewMessage{}
	case MsgTypeFlip:
		target = &FlipMessage{}
	case MsgTypeState:
		target = &StateMessage{}
	case MsgTypeError:
		target = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("unknown message type: %s", m.Type)
	}

	if len(m.Payload) == 0 {
		return target, nil
	}

	err := json.Unmarshal(m.Payload, target)
	return target, err
}

// NewMessage is the payload for MsgTypeNew.
// If GameName is set, the custom board with that name is downloaded and its size
// takes precedence over Size. If neither is set the server's default size is used.
type NewMessage struct {
	Size     *BoardSize `json:"size,omitempty"`
	GameName string     `json:"game_name,omitempty"`
}

// FlipMessage is the payload for MsgTypeFlip
type FlipMessage struct {
	Position int `json:"position"`
}

// StateMessage is the payload for MsgTypeState
type StateMessage struct {
	Board Board `json:"board"`
}

// ErrorMessage is the payload for MsgTypeError
type ErrorMessage struct {
	Message string `json:"message"`
}
