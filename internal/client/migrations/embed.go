// Package migrations embeds the schema of the blogctl session database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
