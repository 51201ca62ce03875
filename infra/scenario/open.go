package scenario

import (
	"fmt"

	core "github.com/kilianp07/linebalance/core/scenario"
)

// Open returns the store selected by backend: "memory" or "sqlite".
func Open(backend, path string) (core.Store, error) {
	switch backend {
	case "", "memory":
		return core.NewMemoryStore(), nil
	case "sqlite":
		if path == "" {
			return nil, fmt.Errorf("sqlite store requires a path")
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %s", backend)
	}
}
