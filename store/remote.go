package store

import (
	"context"
	"encoding/json"
	"strings"
)

// RemoteStore is the shared hierarchical key-value service the planner
// syncs against. Paths are slash-separated; the first segment is the
// collection root ("matches/abc-123" lives under "matches"). A
// subscription on a root receives the root's full current value on
// every change underneath it, including once immediately on subscribe.
type RemoteStore interface {
	// Set writes the whole value at path, replacing whatever was there.
	Set(ctx context.Context, path string, value any) error

	// Get reads the value at path into out. For a root with children it
	// assembles an object keyed by child segment. Returns false when
	// nothing exists at the path.
	Get(ctx context.Context, path string, out any) (bool, error)

	// Update merges the given fields into the object stored at path,
	// creating it if absent. Non-object values cannot be updated.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Delete removes the value at path and everything beneath it.
	Delete(ctx context.Context, path string) error

	// Subscribe registers fn for pushes of the root's full value. The
	// returned func cancels the subscription.
	Subscribe(root string, fn func(raw json.RawMessage)) (cancel func(), err error)
}

// pathRoot returns the collection segment of a path.
func pathRoot(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
