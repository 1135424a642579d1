// Package blob abstracts the remote object store as a key/value store of
// named byte blobs. Each batch owns its own keys, so implementations need
// no cross-process coordination.
package blob

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Download when no blob exists for the key.
// A missing blob is the normal first-run case, not a storage failure.
var ErrNotExist = errors.New("blob does not exist")

// Store is a key/value store of named byte blobs
type Store interface {
	// Download returns the blob stored under key, or ErrNotExist.
	Download(ctx context.Context, key string) ([]byte, error)
	// Upload stores data under key, replacing any previous blob.
	Upload(ctx context.Context, key string, data []byte) error
}
