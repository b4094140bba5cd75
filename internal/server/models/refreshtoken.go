package models

import "time"

// RefreshToken records an issued refresh token by its JWT id. The token is
// valid while the record exists and has not expired.
type RefreshToken struct {
	ID        string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}
