package frontend

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

type TopBar struct {
	app.Compo
	// GameName of the custom game being played, if any.
	GameName string
}

func (t *TopBar) onHome(ctx app.Context, e app.Event) {
	e.PreventDefault()
	ctx.Navigate("/")
}

func (t *TopBar) Render() app.UI {
	var actions []app.UI
	if t.GameName != "" {
		actions = append(actions, app.Li().Body(
			app.Span().Class("game-name").Text(t.GameName),
		))
	}
	actions = append(actions,
		app.Li().Body(app.A().Href("/").OnClick(t.onHome).Text("Home")),
		app.Li().Body(app.A().Href("/create").Text("Create")),
	)

	return app.Nav().Body(
		app.Ul().Body(
			app.Li().Body(
				app.Strong().
					Style("cursor", "pointer").
					OnClick(t.onHome).
					Text("🧠 GoMemory"),
			),
		),
		app.Ul().Body(actions...),
	)
}
