package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/client/client"
	"github.com/dmitrijs2005/jwtclient/internal/client/config"
	"github.com/dmitrijs2005/jwtclient/internal/client/health"
	"github.com/dmitrijs2005/jwtclient/internal/client/metrics"
	"github.com/dmitrijs2005/jwtclient/internal/client/services"
	"github.com/dmitrijs2005/jwtclient/internal/client/session"
	"github.com/dmitrijs2005/jwtclient/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu          sync.Mutex
	hits        []string
	auth        []string
	refreshCode int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, code int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"status":"ok"}`)
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusCreated, `{"msg":"User created","user_id":1}`)
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["username"] != "alice" || req["password"] != "secret" {
			write(w, http.StatusUnauthorized, `{"msg":"Invalid credentials"}`)
			return
		}
		write(w, http.StatusOK, `{"access_token":"AAA","refresh_token":"RRR"}`)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		code := f.refreshCode
		f.mu.Unlock()
		if code != 0 {
			write(w, code, `{"msg":"Token has been revoked"}`)
			return
		}
		write(w, http.StatusOK, `{"access_token":"BBB"}`)
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"msg":"Logged out"}`)
	})
	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"id":1,"name":"Alice"}`)
	})
	mux.HandleFunc("POST /api/items", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusCreated, `{"id":"01J","title":"Title"}`)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits = append(f.hits, r.Method+" "+r.URL.Path)
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

func newTestApp(t *testing.T, api *fakeAPI) *App {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	transport := client.NewHTTPTransport(srv.URL, client.WithTimeout(2*time.Second))
	a := newApp(cfg, logging.Nop(), transport, metrics.New(), strings.NewReader(""), io.Discard)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// stubInputs feeds texts to getSimpleText in order and returns password
// from getPassword.
func stubInputs(t *testing.T, password string, texts ...string) {
	t.Helper()
	origST, origGP, origML := getSimpleText, getPassword, getMultiline
	t.Cleanup(func() {
		getSimpleText, getPassword, getMultiline = origST, origGP, origML
	})

	next := func() (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return next() }
	getMultiline = func(*bufio.Reader, string, io.Writer) (string, error) { return next() }
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
}

func login(t *testing.T, a *App) {
	t.Helper()
	stubInputs(t, "secret", "alice")
	require.NoError(t, a.Login(context.Background()))
	a.pool.Wait()
	require.True(t, a.isLoggedIn())
}

func TestApp_LoginShowsTokensAndProfileUsesBearer(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)

	login(t, a)
	assert.Contains(t, out.String(), "Login successful")
	assert.Contains(t, out.String(), "Access token:  AAA")
	assert.Contains(t, out.String(), "Refresh token: RRR")

	require.NoError(t, a.Profile(context.Background()))
	a.pool.Wait()

	assert.Contains(t, out.String(), `{"id":1,"name":"Alice"}`+"\n")
	assert.Equal(t, []string{"POST /api/auth/login", "GET /api/profile"}, api.requests())
	assert.Equal(t, "Bearer AAA", api.auth[1])
	assert.Empty(t, api.auth[0])
}

func TestApp_LoginFailureKeepsAnonymous(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, &fakeAPI{})

	stubInputs(t, "wrong", "alice")
	require.NoError(t, a.Login(context.Background()))
	a.pool.Wait()

	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "login failed (rejected credentials)")
}

func TestApp_LoginRequiresInputBeforeSubmitting(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)

	stubInputs(t, "", "alice")
	err := a.Login(context.Background())
	a.pool.Wait()

	assert.ErrorIs(t, err, errMissingInput)
	assert.Contains(t, out.String(), "username and password are required")
	assert.Empty(t, api.requests())
}

func TestApp_CreateItemBeforeLoginSendsNothing(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)

	stubInputs(t, "", "Title", "Desc")
	require.NoError(t, a.CreateItem(context.Background()))
	a.pool.Wait()

	assert.Contains(t, out.String(), "create failed (not authenticated)")
	assert.Empty(t, api.requests())
}

func TestApp_CreateItemNeedsTitle(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)
	login(t, a)

	stubInputs(t, "", "")
	assert.ErrorIs(t, a.CreateItem(context.Background()), errMissingInput)
	a.pool.Wait()

	assert.Contains(t, out.String(), "title is required")
	assert.Equal(t, []string{"POST /api/auth/login"}, api.requests())
}

func TestApp_CreateItem(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)
	login(t, a)

	stubInputs(t, "", "Title", "Desc")
	require.NoError(t, a.CreateItem(context.Background()))
	a.pool.Wait()

	assert.Contains(t, out.String(), `Created: {"id":"01J","title":"Title"}`)
}

func TestApp_RefreshKeepsRefreshToken(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, &fakeAPI{})
	login(t, a)

	require.NoError(t, a.Refresh(context.Background()))
	a.pool.Wait()

	assert.Equal(t, session.Pair{AccessToken: "BBB", RefreshToken: "RRR"}, a.session.Snapshot())
	assert.Contains(t, out.String(), "Token refreshed")
	assert.Contains(t, out.String(), "Access token:  BBB")
	assert.Contains(t, out.String(), "Refresh token: RRR")
}

func TestApp_RejectedRefreshEndsSession(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{refreshCode: http.StatusUnauthorized}
	a := newTestApp(t, api)
	login(t, a)

	require.NoError(t, a.Refresh(context.Background()))
	a.pool.Wait()

	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Session expired, please log in again")
	assert.Contains(t, out.String(), "refresh failed (rejected credentials)")
}

func TestApp_RefreshWithoutLogin(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)

	require.NoError(t, a.Refresh(context.Background()))
	a.pool.Wait()

	assert.Contains(t, out.String(), "refresh failed (no refresh token)")
	assert.Empty(t, api.requests())
}

func TestApp_Logout(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, &fakeAPI{})
	login(t, a)

	require.NoError(t, a.Logout(context.Background()))
	a.pool.Wait()

	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Logged out")
	require.NoError(t, a.Tokens(context.Background()))
	assert.Contains(t, out.String(), "Access token:  (none)")
}

func TestApp_Register(t *testing.T) {
	out := captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)

	stubInputs(t, "pw", "bob", "bob@example.com")
	require.NoError(t, a.Register(context.Background()))
	a.pool.Wait()

	assert.Contains(t, out.String(), `Registered: {"msg":"User created","user_id":1}`)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, []string{"POST /api/auth/register"}, api.requests())
}

func TestApp_RegisterRequiresAllFields(t *testing.T) {
	captureOutput(t)
	api := &fakeAPI{}
	a := newTestApp(t, api)

	stubInputs(t, "pw", "bob", "")
	assert.ErrorIs(t, a.Register(context.Background()), errMissingInput)
	assert.Empty(t, api.requests())
}

func TestApp_HealthCommand(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, &fakeAPI{})

	require.NoError(t, a.Health(context.Background()))
	a.pool.Wait()

	assert.Contains(t, out.String(), `Server OK: {"status":"ok"}`)
}

func TestApp_OnHealthPrintsTransitionsOnce(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, &fakeAPI{})

	a.onHealth(health.Result{Status: health.StatusOK})
	a.onHealth(health.Result{Status: health.StatusOK})
	a.onHealth(health.Result{Status: health.StatusError, Detail: "network unreachable"})
	a.onHealth(health.Result{Status: health.StatusError, Detail: "network unreachable"})
	a.onHealth(health.Result{Status: health.StatusOK})

	assert.Equal(t,
		"[health] server is reachable\n"+
			"[health] server is unreachable: network unreachable\n"+
			"[health] server is reachable\n",
		out.String())
}

func TestApp_StatusLine(t *testing.T) {
	a := newTestApp(t, &fakeAPI{})
	assert.Equal(t, "(ANONYMOUS, server UNKNOWN)", a.status())
}

func TestApp_SetServerPersistsAndSwitchesBaseURL(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(t, &fakeAPI{})

	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	a.servers = services.NewServerConfigService(db, "localhost", "5003")

	require.NoError(t, a.SetServer(ctx, " 10.0.0.5 ", "8080"))
	assert.Equal(t, "http://10.0.0.5:8080", a.transport.BaseURL())
	host, port, err := a.servers.GetServerAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", host)
	assert.Equal(t, "8080", port)

	require.NoError(t, a.ShowServer(ctx))
	assert.Contains(t, out.String(), "Server: 10.0.0.5:8080 (http://10.0.0.5:8080)")

	err = a.SetServer(ctx, "10.0.0.6", "99999")
	assert.ErrorIs(t, err, services.ErrInvalidAddress)
	assert.Equal(t, "http://10.0.0.5:8080", a.transport.BaseURL())

	require.NoError(t, a.ResetServer(ctx))
	assert.Equal(t, "http://localhost:5003", a.transport.BaseURL())
}

func TestApp_SetServerWithoutStore(t *testing.T) {
	captureOutput(t)
	a := newTestApp(t, &fakeAPI{})

	err := a.SetServer(context.Background(), "10.0.0.5", "8080")
	assert.True(t, errors.Is(err, errNoConfigStore))
}
