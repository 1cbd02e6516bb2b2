// Package migrations embebe los archivos SQL para que el binario aplique el esquema sin depender del disco.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
