package session

// State is derived from the credential pair.
type State string

const (
	Anonymous     State = "ANONYMOUS"
	Authenticated State = "AUTHENTICATED"
)

// Pair is an immutable credential pair. Empty strings mean absent.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// State reports Authenticated whenever an access token is held, including
// after a login whose response carried no refresh token. Such a session can
// call resources but Refresh and Logout fail with ErrNoRefreshToken.
func (p Pair) State() State {
	if p.AccessToken != "" {
		return Authenticated
	}
	return Anonymous
}

func (p Pair) HasRefreshToken() bool { return p.RefreshToken != "" }

// Short returns tok cut to a loggable prefix.
func Short(tok string) string {
	const keep = 8
	if len(tok) <= keep {
		return tok
	}
	return tok[:keep] + "..."
}
