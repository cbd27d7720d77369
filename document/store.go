package document

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// extensions maps a media type to the extension used for its stored copy.
// Stored names are uuid-based; the original filename never touches disk.
var extensions = map[MediaType]string{
	MediaTypePDF:  ".pdf",
	MediaTypeJPEG: ".jpg",
	MediaTypePNG:  ".png",
}

// LocalStore keeps the transient on-disk copy of an upload for the duration
// of one request. Each stored file is owned by exactly one in-flight
// request; there is no cross-request sharing.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the uploads directory under dataDir if needed.
func NewLocalStore(dataDir string) (*LocalStore, error) {
	dir := filepath.Join(dataDir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create uploads directory %s", dir)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the upload to a uuid-named file and returns the populated
// UploadedDocument. On a partial write the file is removed before the error
// is returned, so a failed Save leaves no state behind.
func (s *LocalStore) Save(filename string, mediaType MediaType, r io.Reader) (*UploadedDocument, error) {
	storedPath := filepath.Join(s.dir, uuid.New().String()+extensions[mediaType])

	out, err := os.Create(storedPath)
	if err != nil {
		return nil, errors.Wrapf(err, "create stored file %s", storedPath)
	}

	size, err := io.Copy(out, r)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(storedPath)
		return nil, errors.Wrap(err, "write stored file")
	}

	return &UploadedDocument{
		Filename:   filename,
		MediaType:  mediaType,
		Size:       size,
		StoredPath: storedPath,
	}, nil
}

// Cleanup removes the transient stored copy. It is idempotent: a handle
// that is already absent is not an error, so double-cleanup and
// cleanup-after-external-removal are safe. Failures are logged and
// returned, but callers must not let them mask the original request error.
func (s *LocalStore) Cleanup(doc *UploadedDocument) error {
	if doc == nil || doc.StoredPath == "" {
		return nil
	}
	if err := os.Remove(doc.StoredPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove stored file", "path", doc.StoredPath, "error", err)
		return errors.Wrapf(err, "remove stored file %s", doc.StoredPath)
	}
	return nil
}
