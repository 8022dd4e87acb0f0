// Package store persists named map documents (raw input trees) so users
// can reload a study map without re-supplying the JSON file.
//
// Only the input tree is stored - layouts and viewport state are always
// recomputed, never persisted. Two backends are provided:
//   - file: JSON documents under ~/.config/synapse/maps for CLI usage
//   - mongo: a MongoDB collection for serve mode
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	synerr "github.com/sumnatarya/Synapse/pkg/errors"
	"github.com/sumnatarya/Synapse/pkg/tree"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a map document does not exist.
	ErrNotFound = errors.New("map not found")

	// ErrInvalidName is returned when a map name is empty.
	ErrInvalidName = errors.New("map name must not be empty")
)

// Map is a stored map document.
type Map struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Tree      tree.RawNode `json:"tree" bson:"tree"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// New creates a map document with a fresh UUID and timestamps.
// The tree is validated the same way the viewer validates it: the root
// name must be non-empty. An over-deep tree is still storable; the full
// document is kept and the viewer truncates on load.
func New(name string, root tree.RawNode) (*Map, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, err := tree.Build(&root); err != nil && synerr.GetCode(err) != synerr.ErrCodeTreeTooDeep {
		return nil, err
	}
	now := time.Now().UTC()
	return &Map{
		ID:        uuid.NewString(),
		Name:      name,
		Tree:      root,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Store is the map-document persistence interface.
type Store interface {
	// Get returns the document with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Map, error)

	// Put inserts or replaces a document by ID, bumping UpdatedAt.
	Put(ctx context.Context, m *Map) error

	// Delete removes a document. Deleting an absent ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all documents sorted by UpdatedAt descending.
	List(ctx context.Context) ([]*Map, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
