package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/shared"
)

// ConfigRepository persists [models.ConfigEntry] rows in the config table.
type ConfigRepository struct {
	db *sql.DB
}

// NewConfigRepository creates a new [ConfigRepository] with the given database connection
func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Set upserts name=value. The row count for name never exceeds one.
func (r *ConfigRepository) Set(name, value string) error {
	return r.upsert(name, sql.NullString{String: value, Valid: true})
}

// Unset stores NULL for name, after which [ConfigRepository.Get] reports it absent.
func (r *ConfigRepository) Unset(name string) error {
	return r.upsert(name, sql.NullString{})
}

func (r *ConfigRepository) upsert(name string, value sql.NullString) error {
	if name == "" {
		return fmt.Errorf("%w: config name is required", shared.ErrValidation)
	}

	query := `
		INSERT INTO config (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`

	if _, err := r.db.Exec(query, name, value); err != nil {
		return storeErr("failed to write config "+name, err)
	}

	return nil
}

// Get returns the value stored under name. A missing row or a NULL value
// yields ok == false with a nil error.
func (r *ConfigRepository) Get(name string) (value string, ok bool, err error) {
	if name == "" {
		return "", false, fmt.Errorf("%w: config name is required", shared.ErrValidation)
	}

	var v sql.NullString
	err = r.db.QueryRow("SELECT value FROM config WHERE name = ? LIMIT 1", name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("failed to read config "+name, err)
	}

	return v.String, v.Valid, nil
}

// List returns every entry with a non-NULL value, ordered by name.
func (r *ConfigRepository) List() ([]models.ConfigEntry, error) {
	rows, err := r.db.Query("SELECT name, value FROM config WHERE value IS NOT NULL ORDER BY name ASC")
	if err != nil {
		return nil, storeErr("failed to query config", err)
	}
	defer rows.Close()

	var entries []models.ConfigEntry
	for rows.Next() {
		var entry models.ConfigEntry
		if err := rows.Scan(&entry.Name, &entry.Value); err != nil {
			return nil, storeErr("failed to scan config", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("row iteration error", err)
	}

	return entries, nil
}
