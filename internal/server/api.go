package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/janpfeifer/GoMemory/internal/boards"
	"github.com/janpfeifer/GoMemory/internal/game"
	qrcode "github.com/skip2/go-qrcode"
	"k8s.io/klog/v2"
)

const (
	defaultMaxUploadSize = 32 << 20 // Whole multipart request
	defaultMaxImageSize  = 4 << 20  // Each image
	qrCodeSize           = 256
)

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.Errorf("Failed to write JSON response: %v", err)
	}
}

// writeError maps err to an HTTP status and writes it as a JSON ErrorMessage.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, boards.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, boards.ErrNameTaken):
		status = http.StatusConflict
	case errors.Is(err, boards.ErrInvalidName), errors.Is(err, game.ErrConfiguration):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		klog.Errorf("Internal error: %v", err)
	}
	writeJSON(w, status, game.ErrorMessage{Message: err.Error()})
}

// handleGetGame returns the custom game {"name", "size", "images"}.
func (s *ServerState) handleGetGame(w http.ResponseWriter, r *http.Request) {
	board, err := s.Boards.Download(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handlePublishGame creates a custom game from a multipart form with a "size"
// field and one "images" file per pair.
func (s *ServerState) handlePublishGame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, game.ErrorMessage{Message: fmt.Sprintf("invalid upload: %v", err)})
		return
	}
	defer r.MultipartForm.RemoveAll()

	size, err := game.ParseBoardSize(r.FormValue("size"))
	if err != nil {
		writeError(w, err)
		return
	}

	files := r.MultipartForm.File["images"]
	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		if fh.Size > s.maxImageSize {
			writeJSON(w, http.StatusRequestEntityTooLarge, game.ErrorMessage{
				Message: fmt.Sprintf("image %q is larger than %d bytes", fh.Filename, s.maxImageSize)})
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(w, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, fmt.Errorf("failed to read upload %q: %w", fh.Filename, err))
			return
		}
		images = append(images, data)
	}

	board, err := s.Boards.Publish(r.Context(), mux.Vars(r)["name"], size, images)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// handleDeleteGame removes a published game. It requires the configured admin token.
func (s *ServerState) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if s.Config.AdminToken == "" || !ok ||
		subtle.ConstantTimeCompare([]byte(token), []byte(s.Config.AdminToken)) != 1 {
		writeJSON(w, http.StatusForbidden, game.ErrorMessage{Message: "deleting games is not allowed"})
		return
	}
	if err := s.Boards.Delete(r.Context(), mux.Vars(r)["name"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleQR generates a QR code PNG with the URL to play a custom game.
func (s *ServerState) handleQR(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("game"))
	if name == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	base := strings.TrimSuffix(s.Config.PublicURL, "/")
	if base == "" {
		base = "http://" + r.Host
	}
	playURL := fmt.Sprintf("%s/play?game=%s", base, url.QueryEscape(name))
	png, err := qrcode.Encode(playURL, qrcode.Medium, qrCodeSize)
	if err != nil {
		klog.Errorf("QR generation failed for %q: %v", playURL, err)
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleImage serves an uploaded image. Its path is relative to boards.ImagePathPrefix.
func (s *ServerState) handleImage(w http.ResponseWriter, r *http.Request) {
	data, err := s.Boards.Image(r.Context(), r.URL.Path)
	if err != nil {
		if errors.Is(err, boards.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		klog.Errorf("Failed to read image %q: %v", r.URL.Path, err)
		http.Error(w, "failed to read image", http.StatusInternalServerError)
		return
	}
	// Images are never modified once uploaded.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}
