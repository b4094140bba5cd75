// Package cli provides the interactive jwtclient command-line client.
//
// It wires configuration, the local server-address store, the HTTP
// transport, the session manager, the health monitor and a bounded worker
// pool behind a small REPL. Network commands run on the pool and print
// their results when they complete; the prompt never waits on the network.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
