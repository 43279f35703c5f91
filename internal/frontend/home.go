package frontend

import (
	"strings"

	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Home is the landing page component: pick a board size or a custom game.
type Home struct {
	app.Compo
	Size     game.BoardSize
	GameName string
}

func (h *Home) OnMount(ctx app.Context) {
	klog.V(1).Infof("Home: OnMount called")
	h.Size = game.DefaultSize
	if State.Board != nil {
		h.Size = State.Board.Size
	}
}

func (h *Home) onSizeChange(ctx app.Context, e app.Event) {
	size, err := game.ParseBoardSize(ctx.JSSrc().Get("value").String())
	if err != nil {
		klog.Errorf("Home: %v", err)
		return
	}
	h.Size = size
}

func (h *Home) onGameNameChange(ctx app.Context, e app.Event) {
	h.GameName = ctx.JSSrc().Get("value").String()
}

func (h *Home) onPlay(ctx app.Context, e app.Event) {
	e.PreventDefault()
	ctx.Navigate(PlayPath(game.NewMessage{Size: &h.Size}))
}

func (h *Home) onPlayCustom(ctx app.Context, e app.Event) {
	e.PreventDefault()
	name := strings.TrimSpace(h.GameName)
	if name == "" {
		return
	}
	ctx.Navigate(PlayPath(game.NewMessage{GameName: name}))
}

func (h *Home) OnAppUpdate(ctx app.Context) {
	klog.Infof("Home component: App update available, reloading...")
	ctx.Reload()
}

func (h *Home) Render() app.UI {
	options := make([]app.UI, 0, len(game.BoardSizes()))
	for _, size := range game.BoardSizes() {
		options = append(options, app.Option().
			Value(size.String()).
			Selected(size == h.Size).
			Textf("%s (%d x %d)", strings.ToUpper(size.String()[:1])+size.String()[1:], size.Width(), size.Height()))
	}

	return app.Main().Class("container").Body(
		&TopBar{},
		app.Article().Body(
			app.Header().Body(
				app.H2().Text("New Game"),
			),
			app.P().Text("Find all the pairs in as few moves as possible."),
			app.Form().OnSubmit(h.onPlay).Body(
				app.Label().For("boardSize").Text("Board Size"),
				app.Select().ID("boardSize").Name("boardSize").OnChange(h.onSizeChange).Body(options...),
				app.Button().Type("submit").Text("Play"),
			),
		),
		app.Article().Body(
			app.Header().Body(
				app.H2().Text("Custom Game"),
			),
			app.P().Body(
				app.Text("Play a game made of someone's pictures, by its name, or "),
				app.A().Href("/create").Text("create your own"),
				app.Text("."),
			),
			app.Form().OnSubmit(h.onPlayCustom).Body(
				app.Label().For("gameName").Text("Game Name"),
				app.Input().
					Type("text").
					ID("gameName").
					Name("gameName").
					Placeholder("e.g. Holidays").
					Value(h.GameName).
					OnInput(h.onGameNameChange),
				app.Button().Type("submit").Text("Play Custom Game"),
			),
		),
	)
}
