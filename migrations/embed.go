// Package migrations embeds the catalog schema applied by database.Migrate.
package migrations

import "embed"

// FS holds the *.up.sql files.
//
//go:embed *.up.sql
var FS embed.FS
