// Package db embeds the SQL migrations for the vmvault schema.
package db

import "embed"

// Migrations holds the schema migration files, embedded into the
// binary so deployments never depend on a migrations directory on
// disk.
//
//go:embed migrations
var Migrations embed.FS
