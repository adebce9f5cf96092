// internal/app/system/mediastore/mediastore.go
//
// Package mediastore maps story media URLs onto a waffle storage.Store.
// Stories reference media by the stable path /uploads/<name>, independent of
// the backend holding the bytes.
package mediastore

import (
	"context"
	"errors"
	"math"
	"path"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
)

// URLPrefix is the path prefix of media URLs stored on stories.
const URLPrefix = "/uploads/"

const listPageSize = 1000

// MediaURL returns the story media URL for name.
func MediaURL(name string) string {
	return URLPrefix + name
}

// NameFromURL extracts the stored name from a media URL.
func NameFromURL(mediaURL string) (string, bool) {
	if !strings.HasPrefix(mediaURL, URLPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(mediaURL, URLPrefix)
	if !ValidName(name) {
		return "", false
	}
	return name, true
}

// ValidName reports whether name is a single safe path element. Names with a
// leading dot are reserved for in-progress writes.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return path.Clean(name) == name
}

// Remove deletes name. A missing object is not an error.
func Remove(ctx context.Context, store storage.Store, name string) error {
	err := store.Delete(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// ListAll returns every object at the root of store, following
// continuation tokens.
func ListAll(ctx context.Context, store storage.Store) ([]storage.ObjectInfo, error) {
	opts := &storage.ListOptions{MaxKeys: listPageSize}
	switch store.(type) {
	case *storage.Local, *storage.Memory:
		// These list in one pass and ignore continuation tokens.
		opts.MaxKeys = math.MaxInt32
	}

	var out []storage.ObjectInfo
	for {
		res, err := store.List(ctx, "", opts)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Objects...)
		if !res.IsTruncated || res.NextContinuationToken == "" || res.NextContinuationToken == opts.ContinuationToken {
			return out, nil
		}
		opts.ContinuationToken = res.NextContinuationToken
	}
}
