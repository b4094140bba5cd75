package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	host  string
	port  string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool                       { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error          { return f.record("register") }
func (f *fakeExec) Refresh(context.Context) error           { return f.record("refresh") }
func (f *fakeExec) Profile(context.Context) error           { return f.record("profile") }
func (f *fakeExec) Items(context.Context) error             { return f.record("items") }
func (f *fakeExec) CreateItem(context.Context) error        { return f.record("create") }
func (f *fakeExec) Tokens(context.Context) error            { return f.record("tokens") }
func (f *fakeExec) Health(context.Context) error            { return f.record("health") }
func (f *fakeExec) Status(context.Context) error            { return f.record("status") }
func (f *fakeExec) ShowServer(context.Context) error        { return f.record("server") }
func (f *fakeExec) ResetServer(context.Context) error       { return f.record("resetserver") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) SetServer(_ context.Context, host, port string) error {
	f.host, f.port = host, port
	return f.record("setserver")
}

func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var buf strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"profile",
		"items",
		"create",
		"",
		"tokens",
		"refresh",
		"health",
		"status",
		"server",
		"setserver 10.0.0.5 8080",
		"setserver onlyhost",
		"resetserver",
		"logout",
		"register",
		"foobar",
		"exit",
		"profile",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(status)" }, rdr(input))

	assert.Equal(t, []string{
		"login", "profile", "items", "create", "tokens", "refresh", "health",
		"status", "server", "setserver", "resetserver", "logout", "register",
	}, exec.calls)
	assert.Equal(t, "10.0.0.5", exec.host)
	assert.Equal(t, "8080", exec.port)

	s := out.String()
	assert.Contains(t, s, "jwt (status)> ")
	assert.Contains(t, s, helpAnonymous)
	assert.Contains(t, s, helpAuthenticated)
	assert.Contains(t, s, "usage: setserver <host> <port>")
	assert.Contains(t, s, "Unknown command: foobar")
	assert.Contains(t, s, "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("items\nquit_not_typed"))

	assert.Equal(t, []string{"items"}, exec.calls)
}
