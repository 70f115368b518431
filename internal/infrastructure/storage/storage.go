// Package storage uploads listing images to an object store.
package storage

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when the backend lacks a bucket or credentials.
var ErrNotConfigured = errors.New("storage is not configured")

// ObjectStore stores a public object and returns its URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (publicURL string, err error)
}
