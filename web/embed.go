// Package web holds the embedded page shells and the static JS client.
package web

import "embed"

//go:embed templates static
var FS embed.FS
