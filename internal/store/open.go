package store

import (
	"context"
	"fmt"
)

// Open returns the Store for driver ("postgres" or "sqlite").
func Open(ctx context.Context, driver, url string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgresStore(ctx, url)
	case "sqlite":
		return NewSQLiteStore(url)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
