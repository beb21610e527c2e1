package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrNotExist is returned by a BlobStore when the named blob has never been written.
var ErrNotExist = errors.New("blob does not exist")

// BlobStore persists whole named documents. Put always overwrites.
type BlobStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}

// Collection is a typed JSON view over a single named blob.
type Collection[T any] struct {
	blobs BlobStore
	name  string
}

// NewCollection binds name in blobs to the element type T.
func NewCollection[T any](blobs BlobStore, name string) *Collection[T] {
	return &Collection[T]{blobs: blobs, name: name}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns the stored value, or def when the blob is absent, holds JSON
// null, or does not decode. Only backend failures are returned as errors.
func (c *Collection[T]) Load(ctx context.Context, def T) (T, error) {
	data, err := c.blobs.Get(ctx, c.name)
	if errors.Is(err, ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("load %s: %w", c.name, err)
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return def, nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn().Err(err).Str("collection", c.name).Msg("stored collection is unreadable, using default")
		return def, nil
	}
	return v, nil
}

// Save encodes v and overwrites the stored blob.
func (c *Collection[T]) Save(ctx context.Context, v T) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}

	if err := c.blobs.Put(ctx, c.name, buf.Bytes()); err != nil {
		return fmt.Errorf("save %s: %w", c.name, err)
	}
	return nil
}
