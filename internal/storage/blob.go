package storage

import (
	"errors"
	"io"
)

var ErrBadKey = errors.New("invalid blob key")

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	// DeletePrefix removes the key and everything stored below it.
	DeletePrefix(prefix string) error
}
