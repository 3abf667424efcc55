// Package migrations embeds the SQL schema migrations for the orderd service.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
