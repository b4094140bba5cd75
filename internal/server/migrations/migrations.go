// Package migrations embeds the PostgreSQL schema for the reference server.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
