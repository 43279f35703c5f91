package frontend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/janpfeifer/GoMemory/internal/config"
	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Upload is an image picked by the user.
type Upload struct {
	Name string
	Data []byte
}

// CreateForm is a custom game about to be published.
type CreateForm struct {
	Name   string
	Size   game.BoardSize
	Images []Upload
}

// Validate checks the form before anything is uploaded, with the same rules as the server.
// It returns the trimmed game name.
func (f *CreateForm) Validate(minName, maxName int) (string, error) {
	name, err := game.ValidateGameName(f.Name, minName, maxName)
	if err != nil {
		return "", err
	}
	if !f.Size.Valid() {
		return "", fmt.Errorf("%w: %d", game.ErrUnknownSize, int(f.Size))
	}
	if len(f.Images) != f.Size.NumPairs() {
		return "", fmt.Errorf("%w: pick %d pictures for a %s board, got %d",
			game.ErrImageCountMismatch, f.Size.NumPairs(), f.Size, len(f.Images))
	}
	return name, nil
}

// NewPublishRequest builds the multipart request publishing the form on the server at baseURL.
func (f *CreateForm) NewPublishRequest(baseURL string) (*http.Request, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("size", f.Size.String()); err != nil {
		return nil, err
	}
	for i, img := range f.Images {
		filename := img.Name
		if filename == "" {
			filename = fmt.Sprintf("image%d", i)
		}
		fw, err := mw.CreateFormFile("images", filename)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(img.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/games/"+url.PathEscape(f.Name), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

// publishResult returns the name of the published game, or the server's error.
func publishResult(resp *http.Response) (string, error) {
	if resp.StatusCode != http.StatusCreated {
		var msg game.ErrorMessage
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil || msg.Message == "" {
			return "", fmt.Errorf("publishing failed: %s", resp.Status)
		}
		return "", errors.New(msg.Message)
	}
	var published struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&published); err != nil {
		return "", fmt.Errorf("invalid server response: %w", err)
	}
	return published.Name, nil
}

// originURL returns the scheme and host of the page, to build API requests.
func originURL(page *url.URL) string {
	return (&url.URL{Scheme: page.Scheme, Host: page.Host}).String()
}

// Create is the page to publish a custom game made of the user's pictures.
type Create struct {
	app.Compo
	Form         CreateForm
	ErrorMessage string
	Loading      bool
	Uploading    bool
}

func (c *Create) OnMount(ctx app.Context) {
	klog.V(1).Infof("Create: OnMount called")
	c.Form.Size = game.DefaultSize
}

func (c *Create) onNameChange(ctx app.Context, e app.Event) {
	c.Form.Name = ctx.JSSrc().Get("value").String()
}

func (c *Create) onSizeChange(ctx app.Context, e app.Event) {
	size, err := game.ParseBoardSize(ctx.JSSrc().Get("value").String())
	if err != nil {
		klog.Errorf("Create: %v", err)
		return
	}
	c.Form.Size = size
}

func (c *Create) onFilesChange(ctx app.Context, e app.Event) {
	files := ctx.JSSrc().Get("files")
	picked := make([]app.Value, files.Length())
	for i := range picked {
		picked[i] = files.Index(i)
	}
	c.Loading = true
	c.ErrorMessage = ""

	// Reading waits on JS promises, which can't happen in the event handler.
	ctx.Async(func() {
		uploads, err := readFiles(picked)
		ctx.Dispatch(func(ctx app.Context) {
			c.Loading = false
			if err != nil {
				c.ErrorMessage = err.Error()
				return
			}
			c.Form.Images = uploads
		})
	})
}

func (c *Create) onCreate(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if c.Uploading || c.Loading {
		return
	}
	cfg := config.Default()
	name, err := c.Form.Validate(cfg.MinGameName, cfg.MaxGameName)
	if err != nil {
		c.ErrorMessage = err.Error()
		return
	}
	form := c.Form
	form.Name = name
	c.Uploading = true
	c.ErrorMessage = ""

	ctx.Async(func() {
		published, err := publish(&form, originURL(app.Window().URL()))
		ctx.Dispatch(func(ctx app.Context) {
			c.Uploading = false
			if err != nil {
				klog.Errorf("Create: %v", err)
				c.ErrorMessage = err.Error()
				return
			}
			klog.Infof("Create: published game %q", published)
			ctx.Navigate(PlayPath(game.NewMessage{GameName: published}))
		})
	})
}

func publish(form *CreateForm, baseURL string) (string, error) {
	req, err := form.NewPublishRequest(baseURL)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()
	return publishResult(resp)
}

// readFiles reads the content of browser File objects.
func readFiles(files []app.Value) ([]Upload, error) {
	uploads := make([]Upload, 0, len(files))
	for _, f := range files {
		name := f.Get("name").String()
		buf, err := await(f.Call("arrayBuffer"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %v", name, err)
		}
		array := app.Window().Get("Uint8Array").New(buf)
		data := make([]byte, array.Length())
		app.CopyBytesToGo(data, array)
		uploads = append(uploads, Upload{Name: name, Data: data})
	}
	return uploads, nil
}

// await blocks until the JS promise settles. It must not be called from a JS callback.
func await(promise app.Value) (app.Value, error) {
	type result struct {
		value app.Value
		err   error
	}
	done := make(chan result, 1)
	var onSuccess, onFailure app.Func
	onSuccess = app.FuncOf(func(this app.Value, args []app.Value) any {
		done <- result{value: args[0]}
		onSuccess.Release()
		onFailure.Release()
		return nil
	})
	onFailure = app.FuncOf(func(this app.Value, args []app.Value) any {
		done <- result{err: fmt.Errorf("%s", args[0].Call("toString").String())}
		onSuccess.Release()
		onFailure.Release()
		return nil
	})
	promise.Call("then", onSuccess, onFailure)
	r := <-done
	return r.value, r.err
}

func (c *Create) Render() app.UI {
	var errorUI app.UI = app.Text("")
	if c.ErrorMessage != "" {
		errorUI = app.P().Class("error").Text(c.ErrorMessage)
	}

	options := make([]app.UI, 0, len(game.BoardSizes()))
	for _, size := range game.BoardSizes() {
		options = append(options, app.Option().
			Value(size.String()).
			Selected(size == c.Form.Size).
			Textf("%s: %d pictures", size, size.NumPairs()))
	}

	cfg := config.Default()
	status := fmt.Sprintf("%d of %d pictures picked", len(c.Form.Images), c.Form.Size.NumPairs())
	if c.Loading {
		status = "Reading pictures..."
	}
	submit := app.Button().Type("submit").Text("Create Game")
	if c.Uploading {
		submit = submit.Disabled(true).Aria("busy", "true").Text("Uploading...")
	}

	return app.Main().Class("container").Body(
		&TopBar{},
		app.Article().Body(
			app.Header().Body(
				app.H2().Text("Create a Custom Game"),
			),
			app.P().Text("Pick one picture per pair, name the game, and share the name or its QR code."),
			errorUI,
			app.Form().OnSubmit(c.onCreate).Body(
				app.Label().For("gameName").Text("Game Name"),
				app.Input().
					Type("text").
					ID("gameName").
					Name("gameName").
					Placeholder(fmt.Sprintf("%d to %d characters", cfg.MinGameName, cfg.MaxGameName)).
					Required(true).
					MaxLength(cfg.MaxGameName).
					AutoComplete(false).
					Value(c.Form.Name).
					OnInput(c.onNameChange),
				app.Label().For("boardSize").Text("Board Size"),
				app.Select().ID("boardSize").Name("boardSize").OnChange(c.onSizeChange).Body(options...),
				app.Label().For("images").Text("Pictures"),
				app.Input().
					Type("file").
					ID("images").
					Name("images").
					Accept("image/*").
					Multiple(true).
					OnChange(c.onFilesChange),
				app.Small().Text(status),
				submit,
			),
		),
	)
}
