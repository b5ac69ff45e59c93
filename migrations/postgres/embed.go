// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contains the Postgres schema migrations (*_up.sql / *_down.sql).
// Used by the service when flags.migrate is set; cmd/migrate reads the
// directory directly instead.
//
//go:embed *.sql
var FS embed.FS
