// Package phenix embeds the coach form served by cmd/phenix.
package phenix

import "embed"

//go:embed web
var WebFS embed.FS
