package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinabrahms/checkers/internal/checkers"
	"github.com/justinabrahms/checkers/internal/config"
	"github.com/justinabrahms/checkers/internal/session"
	"github.com/rs/zerolog/log"
)

type Service struct {
	sessions *session.Manager
	tokens   *session.Tokens
	hub      *Hub
	config   *config.Config
}

func NewService(sessions *session.Manager, tokens *session.Tokens, hub *Hub, cfg *config.Config) *Service {
	s := &Service{
		sessions: sessions,
		tokens:   tokens,
		hub:      hub,
		config:   cfg,
	}
	sessions.OnCommit(s.publish)
	return s
}

// publish pushes a committed snapshot to the session's watchers.
func (s *Service) publish(id string, snap checkers.Snapshot) {
	view, err := newGameView(snap)
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("Failed to build game update")
		return
	}
	s.hub.Publish(id, view)
}

// Routes builds the HTTP handler. CORS wraps the router so preflight
// requests are answered before method matching.
func (s *Service) Routes() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.NewGameHandler).Methods("POST")
	api.HandleFunc("/game", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/game", s.EndGameHandler).Methods("DELETE")
	api.HandleFunc("/game/select", s.SelectHandler).Methods("POST")
	api.HandleFunc("/game/move", s.MoveHandler).Methods("POST")

	router.HandleFunc("/ws", s.WebSocketHandler).Methods("GET")

	if dir := s.config.Server.StaticDir; dir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))
	}
	return corsMiddleware(loggingMiddleware(router))
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// sessionID returns the session carried by the request cookie.
func (s *Service) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.config.Session.CookieName)
	if err != nil {
		return "", session.ErrInvalidToken
	}
	return s.tokens.Parse(cookie.Value)
}

func (s *Service) setSessionCookie(w http.ResponseWriter, id string) error {
	token, err := s.tokens.Issue(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// NewGameHandler starts a fresh game in the caller's session, creating the
// session if the request does not carry a valid one.
func (s *Service) NewGameHandler(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		id = session.NewID()
	}

	snap, err := s.sessions.Start(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("Failed to start game")
		http.Error(w, "Failed to start game", http.StatusInternalServerError)
		return
	}
	if err := s.setSessionCookie(w, id); err != nil {
		log.Error().Err(err).Str("session", id).Msg("Failed to issue session token")
		http.Error(w, "Failed to start game", http.StatusInternalServerError)
		return
	}

	view, ok := s.view(w, id, snap)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	snap, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, id, err)
		return
	}
	view, ok := s.view(w, id, snap)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Service) EndGameHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	if err := s.sessions.End(r.Context(), id); err != nil {
		s.storeError(w, id, err)
		return
	}
	log.Info().Str("session", id).Msg("Game ended")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) SelectHandler(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, "select", s.sessions.Select)
}

func (s *Service) MoveHandler(w http.ResponseWriter, r *http.Request) {
	s.operate(w, r, "move", s.sessions.Move)
}

type squareOperation func(ctx context.Context, id string, row, col int) (checkers.Snapshot, bool, error)

func (s *Service) operate(w http.ResponseWriter, r *http.Request, name string, op squareOperation) {
	id, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	var req SquareRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return
	}
	row, col := *req.Row, *req.Col

	snap, accepted, err := op(r.Context(), id, row, col)
	if err != nil {
		s.storeError(w, id, err)
		return
	}

	log.Info().
		Str("session", id).
		Str("op", name).
		Int("row", row).
		Int("col", col).
		Bool("accepted", accepted).
		Msg("Game operation")

	view, ok := s.view(w, id, snap)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, OperationResponse{Accepted: accepted, Game: view})
}

func (s *Service) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := s.sessionID(r)
	if err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected request without a valid session")
		http.Error(w, "Missing or invalid session", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

func (s *Service) storeError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, session.ErrNotFound) {
		http.Error(w, "No game in session", http.StatusNotFound)
		return
	}
	log.Error().Err(err).Str("session", id).Msg("Session store failure")
	http.Error(w, "Failed to access game", http.StatusInternalServerError)
}

func (s *Service) view(w http.ResponseWriter, id string, snap checkers.Snapshot) (GameView, bool) {
	view, err := newGameView(snap)
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("Stored snapshot is invalid")
		http.Error(w, "Failed to access game", http.StatusInternalServerError)
		return GameView{}, false
	}
	return view, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
