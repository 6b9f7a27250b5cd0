// Package blob defines the object-storage abstraction for uploaded files.
package blob

import "context"

// Ref identifies a stored blob: the opaque storage id used for deletion and
// fetching, and a URL suitable for handing to clients.
type Ref struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// Provider is the interface for blob operations.
type Provider interface {
	// Upload stores data under a unique object name derived from filename
	// and returns its reference.
	Upload(ctx context.Context, data []byte, filename, contentType string) (Ref, error)
	// Delete removes the blob with the given storage id.
	Delete(ctx context.Context, id string) error
	// Fetch returns the raw bytes of the blob with the given storage id.
	Fetch(ctx context.Context, id string) ([]byte, error)
}
