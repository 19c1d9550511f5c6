package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/shared"
)

// Store owns the single connection to the local settings file.
//
// Construct it once per process with [Initialize] and release it with [Store.Close]
// on every exit path. Operations after Close fail with [shared.ErrStore].
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	config *ConfigRepository
	art    *AlbumArtRepository
	logger *log.Logger
}

// Initialize opens or creates the store at path, creating parent directories
// as needed, and brings the schema up to date. Existing rows are left alone,
// so it is safe on an existing store.
func Initialize(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	if path == "" {
		return nil, fmt.Errorf("%w: store path is required", shared.ErrValidation)
	}

	if path != shared.MemoryDatabase {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logger.Info("store not found, creating", "path", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, storeErr("failed to create data directory", err)
		}
	}

	logger.Debug("connecting", "path", path)
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, storeErr("failed to open store", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, storeErr("failed to create schema", err)
	}

	return &Store{
		db:     db,
		path:   path,
		config: NewConfigRepository(db),
		art:    NewAlbumArtRepository(db),
		logger: logger,
	}, nil
}

// Path returns the file the store was opened from.
func (s *Store) Path() string { return s.path }

// DB returns the underlying connection, or nil once closed.
func (s *Store) DB() *sql.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Close releases the connection. Calling it more than once is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	s.logger.Info("closing store", "path", s.path)
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return storeErr("failed to close store", err)
	}
	return nil
}

func (s *Store) open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("%w: store is closed", shared.ErrStore)
	}
	return nil
}

// SetConfig upserts a setting and commits before returning.
func (s *Store) SetConfig(name, value string) error {
	if err := s.open(); err != nil {
		return err
	}
	s.logger.Debug("storing config", "name", name, "value", value)
	return s.config.Set(name, value)
}

// UnsetConfig marks a setting as absent.
func (s *Store) UnsetConfig(name string) error {
	if err := s.open(); err != nil {
		return err
	}
	s.logger.Debug("clearing config", "name", name)
	return s.config.Unset(name)
}

// GetConfig looks up a setting. A never-set key is reported with ok == false, not an error.
func (s *Store) GetConfig(name string) (string, bool, error) {
	if err := s.open(); err != nil {
		return "", false, err
	}
	return s.config.Get(name)
}

// ListConfig returns all set entries.
func (s *Store) ListConfig() ([]models.ConfigEntry, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	return s.config.List()
}

// GetAlbumArt looks up cached art for a track URI. A miss is ok == false, not an error.
func (s *Store) GetAlbumArt(uri string) ([]byte, bool, error) {
	if err := s.open(); err != nil {
		return nil, false, err
	}
	if uri == "" {
		return nil, false, nil
	}
	return s.art.Get(uri)
}

// PutAlbumArt caches art for a track URI. Album art is best-effort: duplicates,
// empty input and storage failures are logged and swallowed.
func (s *Store) PutAlbumArt(uri string, image []byte) {
	if err := s.open(); err != nil {
		s.logger.Warn("skipping album art cache", "uri", uri, "error", err)
		return
	}

	err := s.art.Create(uri, image)
	switch {
	case err == nil:
		s.logger.Debug("cached album art", "uri", uri, "bytes", len(image))
	case errors.Is(err, ErrDuplicateArt):
		s.logger.Debug("album art already cached", "uri", uri)
	default:
		s.logger.Warn("failed to cache album art", "uri", uri, "error", err)
	}
}

// AlbumArtStats reports how many blobs are cached and their total size.
func (s *Store) AlbumArtStats() (int, int64, error) {
	if err := s.open(); err != nil {
		return 0, 0, err
	}
	return s.art.Stats()
}
