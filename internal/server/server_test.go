package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/janpfeifer/GoMemory/internal/config"
)

// startServer runs the server on a random local port until the test ends.
func startServer(t *testing.T) *ServerState {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan *ServerState, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, config.Default(), started)
	}()

	var s *ServerState
	select {
	case s = <-started:
	case err := <-errCh:
		cancel()
		t.Fatalf("Server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatalf("Server took too long to start")
	}

	t.Cleanup(func() {
		// Cancel the context to stop the server
		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Server shut down with error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("Server took too long to shut down")
		}
	})
	return s
}

func TestServerRun(t *testing.T) {
	s := startServer(t)

	for _, path := range []string{"/", "/create", "/play?size=small"} {
		resp, err := http.Get("http://" + s.Address + path)
		if err != nil {
			t.Fatalf("Failed to connect to server: %v", err)
		}
		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to read body: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected status OK, got %v", path, resp.Status)
		}

		// The go-app framework generates standard HTML, with the app name in it.
		body := string(bodyBytes)
		if !strings.Contains(body, "GoMemory") {
			t.Errorf("%s: expected body to contain 'GoMemory', got body: %s", path, body)
		}
	}
}
