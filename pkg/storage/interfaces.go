package storage

import (
	"io"
	"time"
)

type ObjectStorage interface {
	Upload(key string, src io.Reader, contentType string) error
	Delete(key string) error
	PresignUpload(key, contentType string, expires time.Duration) (string, error)
	PublicURL(key string) string
}
