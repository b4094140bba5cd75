package session

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/jwtclient/internal/client/client"
)

const (
	fieldAccessToken  = "access_token"
	fieldRefreshToken = "refresh_token"
)

// parseTokens decodes a login/refresh body. Unknown fields are ignored; the
// access token is required and must be a non-empty string. The refresh token
// is returned only when present as a non-empty string.
func parseTokens(body []byte) (access, refresh string, err error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", "", fmt.Errorf("%w: %v", client.ErrMalformedResponse, err)
	}

	access, ok := fields[fieldAccessToken].(string)
	if !ok || access == "" {
		return "", "", fmt.Errorf("%w: %s missing", client.ErrMalformedResponse, fieldAccessToken)
	}

	refresh, _ = fields[fieldRefreshToken].(string)
	return access, refresh, nil
}
