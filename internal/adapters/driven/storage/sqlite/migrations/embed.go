// Package migrations holds the schema migrations the store applies in
// order at open.
package migrations

import "embed"

// FS carries the migration SQL, compiled into the binary.
//
//go:embed *.sql
var FS embed.FS
