// Package common contains shared constants, sentinel errors and small helpers
// used by both the client and the reference server.
package common

// HTTP header names and values used on the wire.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
	RequestIDHeaderName     = "X-Request-ID"
	ContentTypeJSON         = "application/json"
)

// Routes of the auth/resource API. Both sides use the same table.
const (
	RouteHealth   = "/api/health"
	RouteLogin    = "/api/auth/login"
	RouteRegister = "/api/auth/register"
	RouteRefresh  = "/api/auth/refresh"
	RouteLogout   = "/api/auth/logout"
	RouteProfile  = "/api/profile"
	RouteItems    = "/api/items"
)
