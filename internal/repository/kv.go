package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// KVRepository is a single-table key-value store. The journal keeps each
// user's full entry collection serialized under one key, so every mutation
// is a whole-document rewrite. Two overlapping mutations race and the last
// write wins; acceptable for a single-device client.
type KVRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

type kvRepository struct {
	db *sqlx.DB
}

func NewKVRepository(db *sqlx.DB) KVRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(key string) (string, error) {
	var value string
	err := r.db.Get(&value, `SELECT value FROM kv_store WHERE key = $1`, key)

	if err == sql.ErrNoRows {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

func (r *kvRepository) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())

	return err
}

func (r *kvRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM kv_store WHERE key = $1`, key)
	return err
}
