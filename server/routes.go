package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// OAuth2 API routes
	s.RegisterRouteFunc("POST "+RouteOAuth2Authorize, ChainMiddleware(s.AuthorizeHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteOAuth2Token, ChainMiddleware(s.TokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteOAuth2Introspect, ChainMiddleware(s.IntrospectHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteOAuth2Revoke, ChainMiddleware(s.RevokeHandler(), s.APIMiddleware()...))
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
