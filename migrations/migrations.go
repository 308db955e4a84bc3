// Package migrations embebe el esquema SQL de la base de datos.
package migrations

import "embed"

// FS ficheros NNN_nombre.sql aplicados en orden lexicográfico.
//
//go:embed *.sql
var FS embed.FS
