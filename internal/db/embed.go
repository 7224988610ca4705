package db

import "embed"

// EmbedMigrations holds the embedded metastore migration files.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
