package demo_packs

import (
	"embed"
)

// FS provides embedded demo pack YAMLs for external usage.
//
//go:embed *.yaml
var FS embed.FS
