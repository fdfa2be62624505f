package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/DarianStillwater/courtside/pkg/api/handlers"
	"github.com/DarianStillwater/courtside/pkg/api/middleware"
	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/manager"
	"github.com/DarianStillwater/courtside/pkg/repositories"
)

// APIServer is the control plane: create matches, read snapshots and
// results, and feed commands into running match loops.
type APIServer struct {
	server *http.Server
}

type NewAPIServerOptions struct {
	Port         int
	MatchManager *manager.MatchManager
	Repository   repositories.Repository
}

func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
	}
}

// NewRouter builds the API route table.
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)

	router.HandleFunc("/matches", handlers.HandleCreateMatch(opts.MatchManager)).Methods(http.MethodPost)
	router.HandleFunc("/matches", handlers.HandleListMatches(opts.MatchManager)).Methods(http.MethodGet)
	router.HandleFunc("/matches/{matchID}", handlers.HandleGetMatch(opts.MatchManager)).Methods(http.MethodGet)
	router.HandleFunc("/matches/{matchID}/playbyplay", handlers.HandleGetPlayByPlay(opts.MatchManager)).Methods(http.MethodGet)
	router.HandleFunc("/matches/{matchID}/pause", handlers.HandlePause(opts.MatchManager)).Methods(http.MethodPost)
	router.HandleFunc("/matches/{matchID}/resume", handlers.HandleResume(opts.MatchManager)).Methods(http.MethodPost)
	router.HandleFunc("/matches/{matchID}/stop", handlers.HandleStop(opts.MatchManager)).Methods(http.MethodPost)
	router.HandleFunc("/matches/{matchID}/timeout", handlers.HandleTimeout(opts.MatchManager)).Methods(http.MethodPost)
	router.HandleFunc("/matches/{matchID}/substitutions", handlers.HandleSubstitution(opts.MatchManager)).Methods(http.MethodPost)
	router.HandleFunc("/matches/{matchID}/speed", handlers.HandleSetSpeed(opts.MatchManager)).Methods(http.MethodPost)
	router.HandleFunc("/results", handlers.HandleListResults(opts.Repository)).Methods(http.MethodGet)
	router.HandleFunc("/results/{matchID}", handlers.HandleGetResult(opts.Repository)).Methods(http.MethodGet)
	return router
}

// Start starts the APIServer.
func (s *APIServer) Start() {
	log.Info("API server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer.
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
