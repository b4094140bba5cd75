package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jwtclient/internal/common"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func post(ctx context.Context, d Doer, path, token string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", path, err)
	}
	return d.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: payload, Token: token})
}

func get(ctx context.Context, d Doer, path, token string) ([]byte, error) {
	return d.Do(ctx, Request{Method: http.MethodGet, Path: path, Token: token})
}

// AuthClient formats and dispatches the auth requests.
type AuthClient struct {
	d Doer
}

func NewAuthClient(d Doer) *AuthClient {
	return &AuthClient{d: d}
}

func (c *AuthClient) Login(ctx context.Context, username, password string) ([]byte, error) {
	return post(ctx, c.d, common.RouteLogin, "", loginRequest{Username: username, Password: password})
}

func (c *AuthClient) Register(ctx context.Context, username, email, password string) ([]byte, error) {
	return post(ctx, c.d, common.RouteRegister, "", registerRequest{Username: username, Email: email, Password: password})
}

func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) ([]byte, error) {
	return post(ctx, c.d, common.RouteRefresh, "", refreshTokenRequest{RefreshToken: refreshToken})
}

func (c *AuthClient) Logout(ctx context.Context, refreshToken string) ([]byte, error) {
	return post(ctx, c.d, common.RouteLogout, "", refreshTokenRequest{RefreshToken: refreshToken})
}

// ResourceClient formats and dispatches requests that carry an access token.
// The token is supplied per call; the client keeps none.
type ResourceClient struct {
	d Doer
}

func NewResourceClient(d Doer) *ResourceClient {
	return &ResourceClient{d: d}
}

func (c *ResourceClient) Profile(ctx context.Context, accessToken string) ([]byte, error) {
	return get(ctx, c.d, common.RouteProfile, accessToken)
}

func (c *ResourceClient) Items(ctx context.Context, accessToken string) ([]byte, error) {
	return get(ctx, c.d, common.RouteItems, accessToken)
}

func (c *ResourceClient) CreateItem(ctx context.Context, accessToken, title, description string) ([]byte, error) {
	return post(ctx, c.d, common.RouteItems, accessToken, createItemRequest{Title: title, Description: description})
}

type HealthClient struct {
	d Doer
}

func NewHealthClient(d Doer) *HealthClient {
	return &HealthClient{d: d}
}

func (c *HealthClient) Health(ctx context.Context) ([]byte, error) {
	return get(ctx, c.d, common.RouteHealth, "")
}
