package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/dmitrijs2005/jwtclient/internal/server/models"
	"github.com/dmitrijs2005/jwtclient/internal/server/services"
)

const tokenTypeBearer = "bearer"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	TokenType        string `json:"token_type"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

type profileResponse struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	CreatedAt time.Time   `json:"created_at"`
}

func newTokenResponse(p *services.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		TokenType:        tokenTypeBearer,
		ExpiresInMinutes: int(p.ExpiresIn / time.Minute),
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeMsg(w, http.StatusBadRequest, "Missing username, email or password")
		case errors.Is(err, common.ErrorAlreadyExists):
			writeMsg(w, http.StatusConflict, "User already exists")
		default:
			s.logger.Error(r.Context(), "registration failed", "error", err)
			writeMsg(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.UserName, "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"msg":     "User created",
		"user_id": json.Number(user.ID),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeMsg(w, http.StatusBadRequest, "Missing username or password")
		case errors.Is(err, common.ErrorUnauthorized):
			writeMsg(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			s.logger.Error(r.Context(), "login failed", "error", err)
			writeMsg(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeMsg(w, http.StatusBadRequest, "Missing refresh token")
		return
	}

	pair, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if status, msg, ok := tokenFailure(err); ok {
			writeMsg(w, status, msg)
			return
		}
		s.logger.Error(r.Context(), "refresh failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

// logout treats an expired refresh token as already logged out.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeMsg(w, http.StatusBadRequest, "Missing refresh token")
		return
	}

	err := s.users.Logout(r.Context(), req.RefreshToken)
	if err != nil && !errors.Is(err, common.ErrTokenExpired) {
		if status, msg, ok := tokenFailure(err); ok {
			writeMsg(w, status, msg)
			return
		}
		s.logger.Error(r.Context(), "logout failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMsg(w, http.StatusOK, "Logged out")
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	user, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMsg(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error(r.Context(), "profile lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:        json.Number(user.ID),
		Username:  user.UserName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.logger.Error(r.Context(), "listing items failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.items.Create(r.Context(), userIDFromContext(r.Context()), req.Title, req.Description)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeMsg(w, http.StatusBadRequest, "Missing title")
			return
		}
		s.logger.Error(r.Context(), "creating item failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// tokenFailure maps token errors to a 401 response.
func tokenFailure(err error) (int, string, bool) {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired", true
	case errors.Is(err, common.ErrRefreshTokenRevoked):
		return http.StatusUnauthorized, "Token revoked", true
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token", true
	}
	return 0, "", false
}
