package server

import (
	"net/http"
	"os"

	"github.com/jrsteele09/go-token-server/authcode"
	"github.com/jrsteele09/go-token-server/clients"
	"github.com/jrsteele09/go-token-server/grants"
	"github.com/jrsteele09/go-token-server/internal/config"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/rs/zerolog"
)

// Services holds the wired-up domain services the HTTP layer fronts. The
// composition root (cmd/server) builds these against whatever repos it
// chooses; the server never constructs them itself.
type Services struct {
	Clients    clients.Repo
	Codes      *authcode.Service
	Dispatcher *grants.Dispatcher
	Reader     *token.ReadService
	Revoker    *token.ClientRevokeService
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	services Services
	logger   zerolog.Logger
}

func New(config config.Config, services Services) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		services: services,
		logger:   zerolog.New(os.Stderr).With().Timestamp().Str("component", "server").Logger(),
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		s.logger.Info().Str("route", route).Msg("registered route")
	}
}
