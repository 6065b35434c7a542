// Package static embeds files shipped inside the binary.
package static

import _ "embed"

// SeedTOML is the default seed data loaded by the seed command.
//
//go:embed seed.toml
var SeedTOML []byte
