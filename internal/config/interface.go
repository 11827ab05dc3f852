package config

import "context"

// Loader is the interface for a format-specific project file loader.
type Loader interface {
	// Load reads the project file at path and returns only the fields the
	// file sets. A missing file is an error.
	Load(ctx context.Context, path string) (*Settings, error)
}
