package db

import "embed"

// Migrations holds the golang-migrate files applied by cmd/migration and DB_MIGRATE_ON_START.
//
//go:embed migrations/*.sql
var Migrations embed.FS
