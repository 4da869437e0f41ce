package domain

import "context"

// FileStore stores raw file payloads under a storage key and returns the
// storage path and a public URL. Used for profile pictures.
type FileStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (path, url string, err error)
}
