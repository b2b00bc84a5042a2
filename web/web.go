// Package web holds the embedded single-page chat UI.
package web

import "embed"

//go:embed index.html
var Assets embed.FS
