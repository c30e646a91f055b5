// internal/httpserver/server.go
//
// HTTP server wiring for the Wordle engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints: POST /game/new, POST /game/guess, GET /game/{id}, GET /games.
//   - Sharing: GET /game/{id}/qr (PNG) and GET /game/{id}/live (websocket feed).
//
// Notes:
//   - CORS is single-origin and credentials-enabled.
//   - Engine errors map to statuses in writeEngineError; bodies are always
//     {"error": code, "message": text}.
//   - The live feed is mounted outside the timeout group since the socket
//     outlives any request deadline.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle-registry/internal/daily"
	"github.com/robalobadob/wordle-registry/internal/engine"
	"github.com/robalobadob/wordle-registry/internal/game"
)

// Options configures a Server.
type Options struct {
	ClientOrigin   string        // default http://localhost:5173
	RequestTimeout time.Duration // default 10s
	Logger         zerolog.Logger
	Now            func() time.Time // daily date source; default time.Now
}

// Server bundles router, engine and live feed.
type Server struct {
	r      *chi.Mux
	engine *engine.Engine
	live   *Live
	log    zerolog.Logger
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes. It also
// subscribes the live feed to the engine.
func New(e *engine.Engine, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		r:      chi.NewRouter(),
		engine: e,
		live:   NewLive(opts.Logger),
		log:    opts.Logger,
		now:    opts.Now,
	}
	e.Subscribe(s.live.Publish)

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(opts.Logger))
	s.r.Use(withRequestID)
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(cors(opts.ClientOrigin))

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
		r.Use(jsonContentType)                    // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "wordle-registry",
				"endpoints": []string{
					"/health", "POST /game/new", "POST /game/guess", "/game/{id}",
					"/game/{id}/qr", "/game/{id}/live", "/games", "/debug/words",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			a, g := s.engine.WordStats()
			writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
		})

		// --- games ---
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleGetGame)
		r.Get("/game/{id}/qr", s.handleQR)
		r.Get("/games", s.handleListGames)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
		})
	})

	s.r.Get("/game/{id}/live", s.handleLive)

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Live exposes the websocket feed.
func (s *Server) Live() *Live { return s.live }

// Serve listens on addr until ctx is cancelled, then shuts down gracefully and
// disconnects live clients.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.live.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	s.live.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// withRequestID copies chi's request id into the request logger.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("reqId", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	ev := hlog.FromRequest(r).Info()
	if status >= 500 {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ GAME ---------------------------------------

// maxBodyBytes caps request bodies; game payloads are a few dozen bytes.
const maxBodyBytes = 4 << 10

// decodeBody reads a size-limited JSON body into v and writes the 4xx response
// itself on failure. An empty body is allowed when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, allowEmpty && errors.Is(err, io.EOF):
		return true
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
	}
	return false
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Mode   string `json:"mode"`
	Date   string `json:"date,omitempty"` // daily only
}

// handleNewGame creates a game and returns its id.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body means the default mode
	if !decodeBody(w, r, &req, true) {
		return
	}

	var (
		id  string
		err error
		res = newGameRes{Mode: strings.ToLower(req.Mode)}
	)
	switch res.Mode {
	case "", "random":
		res.Mode = "random"
		id, err = s.engine.CreateGame(r.Context())
	case "daily":
		now := s.now().UTC()
		res.Date = daily.DateKey(now)
		id, err = s.engine.CreateDailyGame(r.Context(), now)
	default:
		writeError(w, http.StatusBadRequest, "bad_mode", `mode must be "random" or "daily"`)
		return
	}
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	res.GameID = id
	writeJSON(w, http.StatusCreated, res)
}

// guessReq payload for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// handleGuess validates and applies one guess, returning the updated view.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if !decodeBody(w, r, &req, false) {
		return
	}
	v, err := s.engine.SubmitGuess(r.Context(), req.GameID, req.Guess)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	v, ok := s.engine.GetGame(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", game.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.ListGames())
}

// ------------------------------- errors ------------------------------------

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeEngineError maps engine errors to status + code.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, game.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, game.ErrInvalidGuessLength):
		status, code = http.StatusUnprocessableEntity, "invalid_guess_length"
	case errors.Is(err, game.ErrNotAWord):
		status, code = http.StatusUnprocessableEntity, "not_a_word"
	case errors.Is(err, game.ErrGameAlreadyComplete):
		status, code = http.StatusConflict, "game_complete"
	case errors.Is(err, game.ErrEmptyVocabulary):
		status, code = http.StatusServiceUnavailable, "empty_vocabulary"
	}
	if status >= 500 {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	writeError(w, status, code, err.Error())
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
