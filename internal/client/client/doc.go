// Package client contains the HTTP building blocks of the jwtclient CLI.
//
// # Overview
//
// The package provides:
//  1. Transport (see HTTPTransport), which performs one JSON request/response
//     exchange against base URL + path and classifies the outcome.
//  2. Endpoint clients (AuthClient, ResourceClient, HealthClient) that build
//     the canonical request bodies and method/path pairs and delegate to a
//     Doer unchanged. They are stateless apart from the Doer they wrap.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI,
//     opening an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Connection-level faults (DNS, refused, timeout, I/O) are returned as
// *TransportError, which matches ErrUnavailable with errors.Is. Any status
// outside [200,300) is returned as *HTTPError carrying the status code and
// the raw body; 401 and 403 also match ErrUnauthorized. Responses that lack
// required fields are reported by callers with ErrMalformedResponse.
//
// Concurrency & Contexts
//
// HTTPTransport is safe for concurrent use. The base URL is read once per
// request, so SetBaseURL only affects requests started afterwards. Every
// call accepts a context.Context and is bounded by the transport timeout.
//
// See Also
//
//   - Transport:  Doer, HTTPTransport, Request
//   - Endpoints:  AuthAPI, ResourceAPI, HealthAPI
//   - DB helpers: InitDatabase, RunMigrations
package client
