package biotab

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

const gsPrefix = "gs://"

// IsGoogleStoragePath reports whether path names a Google Storage object.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, gsPrefix)
}

// SplitGoogleStoragePath splits gs://bucket/object into its bucket and object
// names.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, gsPrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// MaybeOpenFromGoogleStorage opens path for reading. If client is set and path
// begins with gs://, the object is streamed from Google Storage; otherwise
// path is opened on the local filesystem.
func MaybeOpenFromGoogleStorage(path string, client *storage.Client) (io.ReadCloser, error) {
	if client != nil && IsGoogleStoragePath(path) {
		bucketName, pathName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return nil, err
		}

		rdr, err := client.Bucket(bucketName).Object(pathName).NewReader(context.Background())
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}

		return rdr, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// Open opens a local or gs:// path and transparently decompresses it.
func Open(path string, client *storage.Client) (io.ReadCloser, error) {
	raw, err := MaybeOpenFromGoogleStorage(path, client)
	if err != nil {
		return nil, err
	}

	r, dt, err := MaybeDecompress(raw)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.WithFields(log.Fields{"path": path, "compression": dt}).Debug("opened input")

	return r, nil
}
