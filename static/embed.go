// Package static embeds the web UI's stylesheets and scripts.
package static

import "embed"

//go:embed js css
var Files embed.FS
