package client

import (
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError_Is(t *testing.T) {
	tests := []struct {
		status       int
		unauthorized bool
		clientError  bool
	}{
		{http.StatusBadRequest, false, true},
		{http.StatusUnauthorized, true, true},
		{http.StatusForbidden, true, true},
		{http.StatusTooManyRequests, false, true},
		{http.StatusInternalServerError, false, false},
		{http.StatusFound, false, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := error(&HTTPError{StatusCode: tt.status})
			assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized))
			assert.False(t, errors.Is(err, ErrUnavailable))
			assert.Equal(t, tt.clientError, err.(*HTTPError).ClientError())
		})
	}
}

func TestHTTPError_Message(t *testing.T) {
	assert.Equal(t, "http 404 Not Found", (&HTTPError{StatusCode: 404}).Error())
	assert.Equal(t, `http 409: {"msg":"exists"}`, (&HTTPError{StatusCode: 409, Body: `{"msg":"exists"}`}).Error())
}

func TestTransportError_WrapsCause(t *testing.T) {
	err := fmt.Errorf("login: %w", &TransportError{Op: "POST /api/auth/login", Err: syscall.ECONNREFUSED})

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	assert.Contains(t, err.Error(), "POST /api/auth/login: transport error")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&TransportError{Op: "GET /", Err: errors.New("dns")}, "network unreachable"},
		{&HTTPError{StatusCode: 401}, "rejected credentials"},
		{fmt.Errorf("login: %w", ErrMalformedResponse), "malformed server response"},
		{&HTTPError{StatusCode: 500}, "HTTP 500"},
		{errors.New("other"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.err))
	}
}
