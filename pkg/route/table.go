package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Registration and dispatch failure modes.
var (
	ErrDuplicatePath = errors.New("duplicate route path")
	ErrNotFound      = errors.New("route not found")
)

// Route binds one path to a deferred producer of its JSON payload. The
// producer runs on every dispatch; it must be safe for concurrent calls.
type Route struct {
	Path    string
	Respond func() ([]byte, error)
}

// JSON returns a Route that marshals v on each dispatch.
func JSON(path string, v any) Route {
	return Route{
		Path: path,
		Respond: func() ([]byte, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("route: marshal payload of %s: %w", path, err)
			}
			return b, nil
		},
	}
}

// Table is the set of path bindings for one serving session. Registration
// happens sequentially during setup; Dispatch is safe for concurrent use
// while serving.
type Table struct {
	mu     sync.RWMutex
	routes map[string]Route
	order  []string
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{routes: make(map[string]Route)}
}

// Register adds r to the table. Registering a path twice fails with
// ErrDuplicatePath so path-scheme collisions surface before serving begins.
func (t *Table) Register(r Route) error {
	if r.Path == "" {
		return fmt.Errorf("route: register: empty path")
	}
	if r.Respond == nil {
		return fmt.Errorf("route: register %q: nil responder", r.Path)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.routes[r.Path]; ok {
		return fmt.Errorf("route: register %q: %w", r.Path, ErrDuplicatePath)
	}
	t.routes[r.Path] = r
	t.order = append(t.order, r.Path)
	return nil
}

// Dispatch looks up path and invokes its responder. An unregistered path
// fails with ErrNotFound.
func (t *Table) Dispatch(path string) ([]byte, error) {
	t.mu.RLock()
	r, ok := t.routes[path]
	t.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("route: dispatch %q: %w", path, ErrNotFound)
	}
	return r.Respond()
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// Paths returns the registered paths in registration order.
func (t *Table) Paths() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
