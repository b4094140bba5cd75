// Package session owns the access/refresh credential pair of the client.
//
// Manager is the single authority that acquires, refreshes and discards the
// pair. Login, Refresh and Logout are serialized: at most one of them runs at
// a time and later callers queue until the running one finishes or their
// context is done. The pair is replaced as a whole through an atomic pointer,
// so readers (Snapshot and the authenticated calls Profile, Items and
// CreateItem) never block on a pending mutation and never see a pair whose
// access token comes from one login/refresh cycle and refresh token from
// another.
//
// Authenticated calls use the access token held at the moment of the call.
// A refresh running concurrently may invalidate that token; the resulting
// ErrUnauthorized is recoverable by calling Refresh and retrying.
//
// Errors: ErrNotAuthenticated and ErrNoRefreshToken are local precondition
// failures and no request is sent. Transport and HTTP failures come from the
// client package (client.TransportError, client.HTTPError); a successful
// response without an access token yields client.ErrMalformedResponse.
package session
