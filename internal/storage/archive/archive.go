// Package archive provides cold storage for backtest results, either on
// the local filesystem or an S3-compatible bucket.
package archive

import "context"

// Storage is a flat key/value blob store
type Storage interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns all keys under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	Delete(ctx context.Context, key string) error
}
