package staticfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCS serves files from a bucket, optionally under a prefix.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS returns a GCS reader for bucket/prefix.
func NewGCS(client *storage.Client, bucket, prefix string) *GCS {
	if client == nil {
		panic("storage client is required")
	}
	if bucket == "" {
		panic("static bucket is required")
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}
}

// Check verifies the bucket is reachable and the prefix can be listed.
func (g *GCS) Check(ctx context.Context) error {
	bkt := g.client.Bucket(g.bucket)
	if _, err := bkt.Attrs(ctx); err != nil {
		return fmt.Errorf("bucket attrs: %w", err)
	}
	it := bkt.Objects(ctx, &storage.Query{Prefix: g.prefix})
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("list prefix: %w", err)
	}
	return nil
}

// ReadFile implements FS. Object names that only exist as a prefix are directories.
func (g *GCS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	name = CleanName(name)
	if name == "" {
		return nil, ErrIsDirectory
	}

	key := g.prefix + name
	reader, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, g.missing(ctx, key)
		}
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (g *GCS) missing(ctx context.Context, key string) error {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: key + "/"})
	_, err := it.Next()
	switch {
	case err == nil:
		return ErrIsDirectory
	case errors.Is(err, iterator.Done):
		return ErrNotFound
	default:
		return fmt.Errorf("list %s: %w", key, err)
	}
}

var _ FS = (*GCS)(nil)
