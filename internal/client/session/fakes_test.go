package session

import (
	"context"
	"sync"
	"sync/atomic"
)

// fakeAuth records calls and delegates to optional per-method functions.
type fakeAuth struct {
	mu sync.Mutex

	LoginFn    func(ctx context.Context, u, p string) ([]byte, error)
	RegisterFn func(ctx context.Context, u, e, p string) ([]byte, error)
	RefreshFn  func(ctx context.Context, rt string) ([]byte, error)
	LogoutFn   func(ctx context.Context, rt string) ([]byte, error)

	LastRefreshToken string
	Calls            map[string]int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeAuth) enter(name string) func() {
	f.mu.Lock()
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[name]++
	f.mu.Unlock()

	n := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeAuth) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeAuth) Login(ctx context.Context, u, p string) ([]byte, error) {
	defer f.enter("login")()
	if f.LoginFn == nil {
		return []byte(`{"access_token":"AAA","refresh_token":"RRR"}`), nil
	}
	return f.LoginFn(ctx, u, p)
}

func (f *fakeAuth) Register(ctx context.Context, u, e, p string) ([]byte, error) {
	defer f.enter("register")()
	if f.RegisterFn == nil {
		return []byte(`{"msg":"User created"}`), nil
	}
	return f.RegisterFn(ctx, u, e, p)
}

func (f *fakeAuth) Refresh(ctx context.Context, rt string) ([]byte, error) {
	defer f.enter("refresh")()
	f.mu.Lock()
	f.LastRefreshToken = rt
	f.mu.Unlock()
	if f.RefreshFn == nil {
		return []byte(`{"access_token":"AAA2"}`), nil
	}
	return f.RefreshFn(ctx, rt)
}

func (f *fakeAuth) Logout(ctx context.Context, rt string) ([]byte, error) {
	defer f.enter("logout")()
	if f.LogoutFn == nil {
		return []byte(`{"msg":"Logged out"}`), nil
	}
	return f.LogoutFn(ctx, rt)
}

type fakeResources struct {
	mu        sync.Mutex
	LastToken string
	LastTitle string
	LastDesc  string
	Calls     int

	Resp  []byte
	Err   error
	Block chan struct{} // when set, calls wait on it after recording the token
}

func (f *fakeResources) record(tok string) {
	f.mu.Lock()
	f.LastToken = tok
	f.Calls++
	f.mu.Unlock()
	if f.Block != nil {
		<-f.Block
	}
}

func (f *fakeResources) Profile(_ context.Context, tok string) ([]byte, error) {
	f.record(tok)
	return f.Resp, f.Err
}

func (f *fakeResources) Items(_ context.Context, tok string) ([]byte, error) {
	f.record(tok)
	return f.Resp, f.Err
}

func (f *fakeResources) CreateItem(_ context.Context, tok, title, desc string) ([]byte, error) {
	f.mu.Lock()
	f.LastTitle, f.LastDesc = title, desc
	f.mu.Unlock()
	f.record(tok)
	return f.Resp, f.Err
}

type fakeGauge struct{ values []bool }

func (g *fakeGauge) SetAuthenticated(ok bool) { g.values = append(g.values, ok) }
