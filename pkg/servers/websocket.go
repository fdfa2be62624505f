package servers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"nhooyr.io/websocket"

	"github.com/DarianStillwater/courtside/pkg/clients"
	"github.com/DarianStillwater/courtside/pkg/log"
)

// MatchRegistry is the slice of the match manager the spectator server
// needs: just enough to reject streams for unknown matches.
type MatchRegistry interface {
	Exists(matchID string) bool
}

// WSServer streams live match messages to spectators over websockets.
type WSServer struct {
	port       int
	spectators *clients.SpectatorManager
	registry   MatchRegistry
	server     *http.Server
}

type NewWSServerOptions struct {
	Port       int
	Spectators *clients.SpectatorManager
	Registry   MatchRegistry
}

func NewWSServer(opts NewWSServerOptions) *WSServer {
	s := &WSServer{
		port:       opts.Port,
		spectators: opts.Spectators,
		registry:   opts.Registry,
	}

	router := mux.NewRouter()
	router.HandleFunc("/watch/{matchID}", s.handleWatch)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	return s
}

// Start starts the spectator server. It blocks until the server closes.
func (s *WSServer) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.server.Shutdown(context.Background())
	}()

	log.Info("Spectator server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("Spectator server closed")
			return
		}
		log.Error("Spectator server error: %v", err)
	}
}

func (s *WSServer) handleWatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchID"]
	if !s.registry.Exists(matchID) {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error("Failed to accept websocket connection: %v", err)
		return
	}

	spectator := s.spectators.Add(matchID)
	log.Debug("Spectator %d watching match %s", spectator.ID, matchID)

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		s.spectators.Remove(spectator.ID)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	// Spectators are read-only; the read loop only detects disconnects.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-spectator.Send:
			if err := conn.Write(ctx, websocket.MessageBinary, msg); err != nil {
				log.Trace("Failed to write to spectator %d: %v", spectator.ID, err)
				return
			}
		}
	}
}
