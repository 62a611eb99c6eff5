// Package db provides embedded database schema and seed data.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedMenu contains the default menu catalog in JSON form, consumed by the
// seed-db tool.
//
//go:embed seed/menu.json
var SeedMenu []byte
