// Package txdb holds all the migrations for the transaction database
package txdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the transaction database
var Migrations = migrate.NewMigrations()
