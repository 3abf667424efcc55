// Package migrations embeds the SQL schema migrations for the storefront service.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
