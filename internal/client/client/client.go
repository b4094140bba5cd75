package client

import "context"

// AuthAPI covers the four auth endpoints. Results are raw JSON bodies.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) ([]byte, error)
	Register(ctx context.Context, username, email, password string) ([]byte, error)
	Refresh(ctx context.Context, refreshToken string) ([]byte, error)
	Logout(ctx context.Context, refreshToken string) ([]byte, error)
}

// ResourceAPI covers the bearer-authenticated endpoints.
type ResourceAPI interface {
	Profile(ctx context.Context, accessToken string) ([]byte, error)
	Items(ctx context.Context, accessToken string) ([]byte, error)
	CreateItem(ctx context.Context, accessToken, title, description string) ([]byte, error)
}

// HealthAPI covers the unauthenticated probe.
type HealthAPI interface {
	Health(ctx context.Context) ([]byte, error)
}
