// Package migrations embeds the versioned goose migrations applied once at
// server start.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
