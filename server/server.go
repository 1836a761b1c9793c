package server

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ai_blog_generator/generator"
)

//go:embed web/index.html
var webFS embed.FS

const (
	sessionCookie  = "blog_session"
	sessionMaxIdle = 24 * time.Hour
)

type Server struct {
	pipeline *generator.Pipeline
	store    *sessionStore
	page     *template.Template
	timeout  time.Duration
	logger   *slog.Logger
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*generator.Session)}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// prune drops sessions idle for longer than maxIdle and returns how many went.
func (s *sessionStore) prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	n := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// New builds the web front end. timeout bounds each generation request.
func New(pipeline *generator.Pipeline, timeout time.Duration, logger *slog.Logger) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("generator pipeline required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	page, err := template.ParseFS(webFS, "web/index.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		pipeline: pipeline,
		store:    newStore(),
		page:     page,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(s.logger))
	r.Use(Recovery(s.logger))

	r.Get("/", s.handleIndex)
	r.Post("/titles", s.formAction(s.doTitles))
	r.Post("/select", s.formAction(s.doSelect))
	r.Post("/content", s.formAction(s.doContent))
	r.Post("/reset", s.formAction(s.doReset))
	r.Get("/download", s.handleDownload)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.count()})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/state", s.apiState)
		api.Post("/titles", s.apiAction(s.doTitles))
		api.Post("/select", s.apiAction(s.doSelect))
		api.Post("/content", s.apiAction(s.doContent))
		api.Post("/reset", s.apiAction(s.doReset))
	})
	return r
}

// session returns the caller's session, creating one (and its cookie) on
// first contact.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *generator.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.store.get(c.Value); ok {
			return sess
		}
	}
	if n := s.store.prune(sessionMaxIdle); n > 0 {
		s.logger.Info("pruned idle sessions", "count", n)
	}
	id := uuid.NewString()
	sess := generator.NewSession(id, s.pipeline)
	s.store.set(id, sess)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session created", "session", id)
	return sess
}
