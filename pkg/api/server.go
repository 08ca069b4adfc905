package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/engine"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/projectstore"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/session"
)

// Server exposes the engine and design sessions over HTTP. Open sessions
// live in memory; every committed change is written to the project store.
type Server struct {
	engine  *engine.Engine
	store   projectstore.Store
	drafter session.Drafter
	limiter *RateLimiter
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithDrafter enables the room drafting endpoint.
func WithDrafter(d session.Drafter) ServerOption {
	return func(s *Server) { s.drafter = d }
}

// WithRateLimiter enforces per-IP limits on every route but /healthz.
func WithRateLimiter(rl *RateLimiter) ServerOption {
	return func(s *Server) { s.limiter = rl }
}

func NewServer(eng *engine.Engine, store projectstore.Store, opts ...ServerOption) *Server {
	s := &Server{
		engine:   eng,
		store:    store,
		logger:   slog.Default().With("component", "api"),
		sessions: make(map[string]*session.Session),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /v1/evaluate", s.handleEvaluate)
	api.HandleFunc("POST /v1/resolve", s.handleResolve)
	api.HandleFunc("GET /v1/catalog/products/{sku}", s.handleProduct)
	api.HandleFunc("GET /v1/projects", s.handleListProjects)
	api.HandleFunc("POST /v1/projects", s.handleCreateProject)
	api.HandleFunc("GET /v1/projects/{id}", s.handleGetProject)
	api.HandleFunc("POST /v1/projects/{id}/rooms", s.handleAddRoom)
	api.HandleFunc("PUT /v1/projects/{id}/rooms/{roomID}", s.handleUpdateRoom)
	api.HandleFunc("DELETE /v1/projects/{id}/rooms/{roomID}", s.handleRemoveRoom)
	api.HandleFunc("POST /v1/projects/{id}/rooms/{roomID}/revert", s.handleRevertRoom)
	api.HandleFunc("POST /v1/projects/{id}/rooms/{roomID}/draft", s.handleDraftRoom)

	var routed http.Handler = api
	if s.limiter != nil {
		routed = s.limiter.Middleware(api)
	}

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.handleHealth)
	root.Handle("/", routed)
	return RequestID(AccessLog(s.logger, root))
}

// session returns the open session for id, loading it from the store on
// first use.
func (s *Server) session(ctx context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	project, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(s.engine, project)
	if err != nil {
		return nil, fmt.Errorf("reopen project %s: %w", id, err)
	}
	s.sessions[id] = sess
	return sess, nil
}

// open registers a new project. It fails when the id is already taken.
func (s *Server) open(ctx context.Context, project design.ProjectConfiguration) (*session.Session, error) {
	sess, err := session.New(s.engine, project)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := sess.ProjectID()
	if _, ok := s.sessions[id]; ok {
		return nil, errProjectExists
	}
	if _, err := s.store.Load(ctx, id); err == nil {
		return nil, errProjectExists
	} else if !errors.Is(err, projectstore.ErrNotFound) {
		return nil, err
	}
	if err := s.store.Save(ctx, sess.Snapshot()); err != nil {
		return nil, err
	}
	s.sessions[id] = sess
	return sess, nil
}

func (s *Server) persist(ctx context.Context, sess *session.Session) error {
	if err := s.store.Save(ctx, sess.Snapshot()); err != nil {
		return fmt.Errorf("persist project %s: %w", sess.ProjectID(), err)
	}
	return nil
}

var errProjectExists = errors.New("api: project already exists")
