// Package migrations содержит SQL-миграции схемы каталога.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
