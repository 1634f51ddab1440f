// Package migrations embeds the postgres schema.
// Files are named NNNN_name.up.sql / NNNN_name.down.sql and applied in name order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
