package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/robalobadob/wordle-registry/internal/game"
)

const qrSize = 320 // mobile-friendly size

// handleQR returns a PNG QR code pointing at the game's URL.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.engine.GetGame(id); !ok {
		writeError(w, http.StatusNotFound, "not_found", game.ErrNotFound.Error())
		return
	}

	png, err := qrcode.Encode(gameURL(r), qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "qr_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// gameURL derives the game URL from the request, respecting TLS and
// X-Forwarded-Proto. The path is the request path without the trailing /qr.
func gameURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")
}
