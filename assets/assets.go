// Package assets provides access to embedded static files.
package assets

import "embed"

//go:embed index.html
var embedFS embed.FS

// ReadFile returns the content of an embedded file by name.
func ReadFile(name string) ([]byte, error) {
	return embedFS.ReadFile(name)
}
