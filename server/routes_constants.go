package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteOAuth2Authorize  = "/oauth2/authorize"
	RouteOAuth2Token      = "/oauth2/token"
	RouteOAuth2Introspect = "/oauth2/introspect"
	RouteOAuth2Revoke     = "/oauth2/revoke"

	RouteHealth = "/healthz"
)
