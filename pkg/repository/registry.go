package repository

import (
	"context"
	"sync"

	"github.com/localbrain/localbrain/pkg/interfaces"
	"github.com/localbrain/localbrain/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Registry caches one open database handle per resolved path for the life of
// the process. The mutex serializes first-opens: two concurrent callers
// resolving to the same new path see exactly one open and one schema
// application (schema creation is idempotent anyway, but the lock keeps the
// handle single-instanced).
type Registry struct {
	mu  sync.Mutex
	dbs map[string]*DB
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		dbs: make(map[string]*DB),
	}
}

// Acquire resolves locator and returns the cached handle for that path,
// opening the file and creating schema on first acquisition.
func (r *Registry) Acquire(ctx context.Context, locator string) (interfaces.Repository, error) {
	path, err := ResolveLocator(locator)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.dbs[path]; ok {
		return db, nil
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	r.dbs[path] = db

	logging.From(ctx).Debug("opened memory database", "path", path)
	return db, nil
}

// CloseAll closes every cached handle. Intended for process shutdown; the
// registry stays usable and will reopen on the next Acquire.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for path, db := range r.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, goerr.Wrap(err, "failed to close database", goerr.V("path", path)))
		}
		delete(r.dbs, path)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
