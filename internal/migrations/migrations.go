// Package migrations embeds the versioned SQL schema migrations applied
// with goose at startup. Schema changes are made here and only here; the
// application never issues DDL at request time.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
