package frontend

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// PlayPath returns the page path to play the requested game.
func PlayPath(req game.NewMessage) string {
	q := url.Values{}
	if req.GameName != "" {
		q.Set("game", req.GameName)
	} else if req.Size != nil {
		q.Set("size", req.Size.String())
	}
	if len(q) == 0 {
		return "/play"
	}
	return "/play?" + q.Encode()
}

// ParsePlayQuery is the reverse of PlayPath.
func ParsePlayQuery(q url.Values) (game.NewMessage, error) {
	var req game.NewMessage
	if name := strings.TrimSpace(q.Get("game")); name != "" {
		req.GameName = name
		return req, nil
	}
	if s := q.Get("size"); s != "" {
		size, err := game.ParseBoardSize(s)
		if err != nil {
			return req, err
		}
		req.Size = &size
	}
	return req, nil
}

// Play is the board page: it starts the game given in the URL and plays it.
type Play struct {
	app.Compo
	Board *game.Board
	Error string
}

func (p *Play) OnMount(ctx app.Context) {
	klog.V(1).Infof("Play component: OnMount called")
	State.Listeners["play"] = func() {
		ctx.Dispatch(func(ctx app.Context) {
			p.Board = State.Board
			p.Error = State.Error
		})
	}
}

func (p *Play) OnDismount() {
	delete(State.Listeners, "play")
}

func (p *Play) OnNav(ctx app.Context) {
	if app.IsServer {
		return
	}
	req, err := ParsePlayQuery(app.Window().URL().Query())
	if err != nil {
		p.Error = err.Error()
		return
	}
	klog.Infof("Play component: starting game %s", PlayPath(req))
	if err := State.ConnectWS(req); err != nil {
		p.Error = fmt.Sprintf("Failed to connect to the server: %v", err)
		return
	}
	p.Board = nil
	p.Error = ""
}

func (p *Play) OnAppUpdate(ctx app.Context) {
	klog.Infof("Play component: App update available, not reloading not to interrupt the game...")
}

func (p *Play) onCardClick(position int) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		e.PreventDefault()
		State.SendFlip(position)
	}
}

func (p *Play) onNewGame(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if err := State.SendNew(State.Request); err != nil {
		p.Error = err.Error()
	}
}

func (p *Play) renderCard(cv game.CardView) app.UI {
	var face app.UI = app.Span().Class("card-back").Text("❔")
	if cv.FaceUp && cv.Identity != nil {
		if cv.Identity.IsCustom() {
			face = app.Img().Class("card-image").Src(cv.Identity.ImageURL).Alt(fmt.Sprintf("card %d", cv.Index))
		} else {
			face = app.Span().Class("card-icon").Text(game.IconFor(*cv.Identity))
		}
	}
	class := "card"
	switch {
	case cv.Matched:
		class += " matched"
	case cv.FaceUp:
		class += " face-up"
	}
	return app.Button().
		Class(class).
		Disabled(!CanFlip(p.Board, cv.Index)).
		OnClick(p.onCardClick(cv.Index)).
		Body(face)
}

func (p *Play) renderStatus() app.UI {
	b := p.Board
	if b.Won {
		return app.P().Class("status won").Textf("You won in %d moves!", b.NumMoves)
	}
	return app.P().Class("status").Textf("Moves: %d · Pairs: %d / %d", b.NumMoves, b.NumPairsFound, b.NumPairs)
}

func (p *Play) Render() app.UI {
	var body []app.UI
	if p.Error != "" {
		body = append(body, app.P().Class("error").Text(p.Error))
	}
	if p.Board == nil {
		if p.Error == "" {
			body = append(body, app.P().Attr("aria-busy", "true").Text("Shuffling cards..."))
		}
		return app.Main().Class("container").Body(append([]app.UI{&TopBar{}}, body...)...)
	}

	cards := make([]app.UI, len(p.Board.Cards))
	for i, cv := range p.Board.Cards {
		cards[i] = p.renderCard(cv)
	}
	body = append(body,
		p.renderStatus(),
		app.Div().
			Class("board").
			Style("display", "grid").
			Style("grid-template-columns", fmt.Sprintf("repeat(%d, 1fr)", p.Board.Width)).
			Style("gap", "0.5rem").
			Body(cards...),
		app.Button().Class("secondary").OnClick(p.onNewGame).Text("New Game"),
	)
	if p.Board.GameName != "" {
		body = append(body, app.Details().Body(
			app.Summary().Text("Share this game"),
			app.Img().
				Src("/api/qr?game="+url.QueryEscape(p.Board.GameName)).
				Alt("QR code for "+p.Board.GameName),
		))
	}
	return app.Main().Class("container").Body(append([]app.UI{&TopBar{GameName: p.Board.GameName}}, body...)...)
}
