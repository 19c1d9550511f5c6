package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/socotk/internal/shared"
)

// ErrDuplicateArt is returned by [AlbumArtRepository.Create] when the URI is already cached.
var ErrDuplicateArt = errors.New("album art already cached")

// AlbumArtRepository persists album art blobs in the images table.
type AlbumArtRepository struct {
	db *sql.DB
}

// NewAlbumArtRepository creates a new [AlbumArtRepository] with the given database connection
func NewAlbumArtRepository(db *sql.DB) *AlbumArtRepository {
	return &AlbumArtRepository{db: db}
}

// Get returns the blob cached for uri. A miss yields ok == false with a nil error.
func (r *AlbumArtRepository) Get(uri string) (image []byte, ok bool, err error) {
	err = r.db.QueryRow("SELECT image FROM images WHERE uri = ?", uri).Scan(&image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr("failed to query album art", err)
	}
	return image, true, nil
}

// Create inserts a new blob. Existing URIs are never overwritten; the
// constraint failure is reported as [ErrDuplicateArt].
func (r *AlbumArtRepository) Create(uri string, image []byte) error {
	if uri == "" || len(image) == 0 {
		return fmt.Errorf("%w: album art needs a uri and data", shared.ErrValidation)
	}

	if _, err := r.db.Exec("INSERT INTO images (uri, image) VALUES (?, ?)", uri, image); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateArt, uri)
		}
		return storeErr("failed to insert album art", err)
	}

	return nil
}

// Stats returns the number of cached blobs and their total size in bytes.
func (r *AlbumArtRepository) Stats() (count int, size int64, err error) {
	err = r.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(LENGTH(image)), 0) FROM images").Scan(&count, &size)
	if err != nil {
		return 0, 0, storeErr("failed to query album art stats", err)
	}
	return count, size, nil
}
