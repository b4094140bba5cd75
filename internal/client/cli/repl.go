package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// execIface is the command surface the prompt dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Items(ctx context.Context) error
	CreateItem(ctx context.Context) error
	Tokens(ctx context.Context) error
	Health(ctx context.Context) error
	Status(ctx context.Context) error
	ShowServer(ctx context.Context) error
	SetServer(ctx context.Context, host, port string) error
	ResetServer(ctx context.Context) error
}

const (
	helpAnonymous     = "Available commands: register, login, health, status, server, setserver <host> <port>, resetserver, tokens, exit"
	helpAuthenticated = "Available commands: profile, items, create, refresh, logout, tokens, health, status, server, setserver <host> <port>, resetserver, exit"
)

// runREPL reads commands from in until EOF, "exit" or "quit".
//
// Commands that talk to the server are handed to the worker pool by the
// handlers and return right away, so the prompt stays responsive while
// requests are in flight. Their results are printed when they arrive.
//
// Errors returned by handlers are ignored here: handlers report their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		say(fmt.Sprintf("jwt %s> ", statusFn()))
		line, err := readLine(in)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				say(helpAuthenticated)
			} else {
				say(helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "items":
			_ = a.Items(ctx)
		case "create":
			_ = a.CreateItem(ctx)
		case "tokens":
			_ = a.Tokens(ctx)
		case "health":
			_ = a.Health(ctx)
		case "status":
			_ = a.Status(ctx)
		case "server":
			_ = a.ShowServer(ctx)

		case "setserver":
			if len(args) != 2 {
				say("usage: setserver <host> <port>")
				continue
			}
			_ = a.SetServer(ctx, args[0], args[1])

		case "resetserver":
			_ = a.ResetServer(ctx)

		case "exit", "quit":
			say("Bye!")
			return

		default:
			say("Unknown command:", cmd)
		}
	}
}
