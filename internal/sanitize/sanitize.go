// Package sanitize provides functions for sanitizing names for safe filesystem use.
package sanitize

import "strings"

var replacer = strings.NewReplacer(
	"/", "_",
	`\`, "_",
	":", "_",
	" ", "_",
)

// Name converts a database name or file path into a single filesystem-safe
// path element. Empty names map to "default".
func Name(name string) string {
	safe := strings.Trim(replacer.Replace(strings.TrimSpace(name)), "_.")
	if safe == "" {
		return "default"
	}
	return safe
}
