package frontend

import (
	"net/url"
	"testing"

	"github.com/janpfeifer/GoMemory/internal/game"
)

func TestPlayPath(t *testing.T) {
	large := game.Large
	for _, tc := range []struct {
		req  game.NewMessage
		want string
	}{
		{game.NewMessage{}, "/play"},
		{game.NewMessage{Size: &large}, "/play?size=large"},
		{game.NewMessage{GameName: "my pets"}, "/play?game=my+pets"},
		{game.NewMessage{Size: &large, GameName: "pets"}, "/play?game=pets"},
	} {
		got := PlayPath(tc.req)
		if got != tc.want {
			t.Errorf("PlayPath(%+v) = %q, want %q", tc.req, got, tc.want)
		}

		u, err := url.Parse(got)
		if err != nil {
			t.Fatalf("url.Parse(%q): %v", got, err)
		}
		req, err := ParsePlayQuery(u.Query())
		if err != nil {
			t.Fatalf("ParsePlayQuery(%q): %v", got, err)
		}
		if PlayPath(req) != got {
			t.Errorf("ParsePlayQuery(%q) = %+v doesn't round trip", got, req)
		}
	}

	if _, err := ParsePlayQuery(url.Values{"size": {"huge"}}); err == nil {
		t.Errorf("expected an error for an unknown size")
	}
}

func TestCanFlip(t *testing.T) {
	board := &game.Board{Cards: []game.CardView{
		{Index: 0},
		{Index: 1, FaceUp: true, Identity: &game.Identity{Icon: 3}},
		{Index: 2, FaceUp: true, Matched: true, Identity: &game.Identity{Icon: 4}},
	}}
	for position, want := range map[int]bool{-1: false, 0: true, 1: false, 2: false, 3: false} {
		if got := CanFlip(board, position); got != want {
			t.Errorf("CanFlip(%d) = %v, want %v", position, got, want)
		}
	}
	board.Won = true
	if CanFlip(board, 0) {
		t.Errorf("CanFlip should reject taps on a won board")
	}
	if CanFlip(nil, 0) {
		t.Errorf("CanFlip should reject taps without a board")
	}
}

func TestWsURL(t *testing.T) {
	for page, want := range map[string]string{
		"http://localhost:8080/play?size=small": "ws://localhost:8080/ws",
		"https://memory.example.com/":           "wss://memory.example.com/ws",
	} {
		u, err := url.Parse(page)
		if err != nil {
			t.Fatalf("url.Parse(%q): %v", page, err)
		}
		if got := wsURL(u); got != want {
			t.Errorf("wsURL(%q) = %q, want %q", page, got, want)
		}
	}
}

func TestHandleMessage(t *testing.T) {
	s := &GlobalClientState{Listeners: make(map[string]func())}
	notified := 0
	s.Listeners["test"] = func() { notified++ }

	g, err := game.NewMemoryGame(game.Small, nil, nil)
	if err != nil {
		t.Fatalf("NewMemoryGame: %v", err)
	}
	msg, err := game.NewWsMessage(game.MsgTypeState, game.StateMessage{Board: game.NewBoard("", g, nil)})
	if err != nil {
		t.Fatalf("NewWsMessage: %v", err)
	}
	s.handleMessage(msg)
	if s.Board == nil || len(s.Board.Cards) != game.Small.NumCards() || notified != 1 {
		t.Fatalf("state message not applied: board=%v, notified=%d", s.Board, notified)
	}

	msg, _ = game.NewWsMessage(game.MsgTypeError, game.ErrorMessage{Message: "boom"})
	s.handleMessage(msg)
	if s.Error != "boom" || s.Board == nil || notified != 2 {
		t.Errorf("error message not applied: error=%q, board=%v, notified=%d", s.Error, s.Board, notified)
	}

	// Messages the client never expects are ignored.
	msg, _ = game.NewWsMessage(game.MsgTypeFlip, game.FlipMessage{Position: 1})
	s.handleMessage(msg)
	if notified != 2 {
		t.Errorf("unexpected notification for a flip message")
	}
}

func TestRenderCard(t *testing.T) {
	p := &Play{Board: &game.Board{Cards: []game.CardView{
		{Index: 0},
		{Index: 1, FaceUp: true, Identity: &game.Identity{Icon: 2}},
		{Index: 2, FaceUp: true, Matched: true, Identity: &game.Identity{ImageURL: "/images/pets/a"}},
	}}}
	for _, cv := range p.Board.Cards {
		if p.renderCard(cv) == nil {
			t.Errorf("card %d rendered nothing", cv.Index)
		}
	}
}
