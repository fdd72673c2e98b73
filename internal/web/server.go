package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"

	"github.com/vovakirdan/bubble-arcade/internal/registry"
	"github.com/vovakirdan/bubble-arcade/internal/storage"
)

// Routes served by the API.
const (
	RouteLive     = "/api/live"
	RouteSessions = "/api/sessions"
	RouteGames    = "/api/games"
	RouteScores   = "/api/games/:game/scores"
	RouteStats    = "/api/games/:game/stats"
)

const (
	defaultLimit = 10
	maxLimit     = 100

	subscriberBuffer = 32
	writeWait        = 5 * time.Second
	pingPeriod       = 30 * time.Second
	pongWait         = 2 * pingPeriod
)

// ScoreReader is the part of the score ledger the API reads.
type ScoreReader interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	GetGameStats(gameID string) (*storage.GameStats, error)
}

// Server routes leaderboard and live feed requests.
type Server struct {
	router   *way.Router
	scores   ScoreReader
	hub      *Hub
	upgrader *websocket.Upgrader
	logger   *log.Logger
}

// NewServer creates the API handler. scores may be nil when no ledger is
// available; the score routes then answer 503.
func NewServer(scores ScoreReader, hub *Hub, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if hub == nil {
		hub = NewHub()
	}
	s := &Server{
		scores: scores,
		hub:    hub,
		logger: logger,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc(http.MethodGet, RouteLive, s.handleLive)
	s.router.HandleFunc(http.MethodGet, RouteSessions, s.handleSessions)
	s.router.HandleFunc(http.MethodGet, RouteGames, s.handleGames)
	s.router.HandleFunc(http.MethodGet, RouteScores, s.handleScores)
	s.router.HandleFunc(http.MethodGet, RouteStats, s.handleStats)
	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the live feed hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, registry.List())
}

func (s *Server) handleSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Sessions())
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	game, ok := s.gameParam(w, r)
	if !ok {
		return
	}

	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
			return
		}
		limit = min(n, maxLimit)
	}

	entries, err := s.scores.TopScores(game, limit)
	if err != nil {
		s.logger.Error("read scores", "game", game, "err", err)
		writeError(w, http.StatusInternalServerError, "cannot read scores")
		return
	}
	if entries == nil {
		entries = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	game, ok := s.gameParam(w, r)
	if !ok {
		return
	}

	stats, err := s.scores.GetGameStats(game)
	if err != nil {
		s.logger.Error("read stats", "game", game, "err", err)
		writeError(w, http.StatusInternalServerError, "cannot read stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// gameParam validates the :game segment and ledger availability.
func (s *Server) gameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	game := way.Param(r.Context(), "game")
	if !registry.Exists(game) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown game %q", game))
		return "", false
	}
	if s.scores == nil {
		writeError(w, http.StatusServiceUnavailable, "score ledger unavailable")
		return "", false
	}
	return game, true
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	frames, unsubscribe := s.hub.Subscribe(subscriberBuffer)
	defer unsubscribe()

	s.logger.Info("spectator connected", "remote", r.RemoteAddr)
	defer s.logger.Info("spectator disconnected", "remote", r.RemoteAddr)

	// Spectators only listen; the read loop notices when they go away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		//nolint:errcheck // deadline errors surface on the next read
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case data, ok := <-frames:
			if !ok {
				return
			}
			//nolint:errcheck // write errors are reported by WriteMessage
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client may have gone away
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}
