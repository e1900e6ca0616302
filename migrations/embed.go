// Package migrations embeds the SQL files for the Postgres document store.
package migrations

import "embed"

// Files holds the *.sql migrations applied in lexical order.
//
//go:embed *.sql
var Files embed.FS
