// Package database holds the SQL that defines and queries the schema.
// migrations/ is applied by internal/pkg/migration; queries/ is the input
// to sqlc, whose output lives in internal/pkg/sqlc.
package database

import "embed"

// Migrations contains migrations/*.sql.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"
