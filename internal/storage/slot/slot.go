// Package slot persists a single named blob, the way the browser front end
// kept its sprint board in one local-storage key.
package slot

import "context"

// DefaultKey is the name of the slot holding the sprint collection.
const DefaultKey = "sprints"

// Store reads and writes one serialized value.
// Load returns nil data and a nil error when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
