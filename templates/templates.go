// Package templates holds the built-in report templates.
package templates

import "embed"

//go:embed report/*.tmpl
var FS embed.FS
