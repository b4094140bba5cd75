package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/jwtclient/internal/client/client"
	"github.com/dmitrijs2005/jwtclient/internal/client/session"
	"github.com/dmitrijs2005/jwtclient/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

var errMissingInput = errors.New("missing input")

// readPasswordString prompts for a password and returns it as a string. The
// raw bytes are wiped.
func (a *App) readPasswordString() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Register prompts for username, email and password and submits the
// registration. The session is not touched.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPasswordString()
	if err != nil {
		return err
	}

	if username == "" || email == "" || password == "" {
		say("username, email and password are required")
		return errMissingInput
	}

	return a.dispatch("register", func(ctx context.Context) ([]byte, error) {
		return a.session.Register(ctx, username, email, password)
	}, func(body []byte) {
		say("Registered:", string(body))
	})
}

// Login prompts for credentials and submits the login.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPasswordString()
	if err != nil {
		return err
	}

	if username == "" || password == "" {
		say("username and password are required")
		return errMissingInput
	}

	return dispatchValue(a, "login", func(ctx context.Context) (session.Pair, error) {
		return a.session.LoginPair(ctx, username, password)
	}, func(p session.Pair) {
		say("Login successful")
		printPair(p)
	})
}

func (a *App) Refresh(ctx context.Context) error {
	return dispatchValue(a, "refresh", func(ctx context.Context) (session.Pair, error) {
		p, err := a.session.RefreshPair(ctx)
		if err != nil && a.session.State() == session.Anonymous && errors.As(err, new(*client.HTTPError)) {
			say("Session expired, please log in again")
		}
		return p, err
	}, func(p session.Pair) {
		say("Token refreshed")
		printPair(p)
	})
}

func (a *App) Logout(ctx context.Context) error {
	return a.dispatch("logout", func(ctx context.Context) ([]byte, error) {
		return nil, a.session.Logout(ctx)
	}, func([]byte) {
		say("Logged out")
	})
}

// Tokens prints the current credential pair.
func (a *App) Tokens(ctx context.Context) error {
	a.printTokens()
	return nil
}

func (a *App) printTokens() {
	printPair(a.session.Snapshot())
}

func printPair(p session.Pair) {
	say("Access token: ", orNone(p.AccessToken))
	say("Refresh token:", orNone(p.RefreshToken))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
