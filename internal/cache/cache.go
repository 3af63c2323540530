// Package cache persists source-content fingerprints between builds so
// incremental builds can skip rendering unchanged pages.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed fingerprint cache. A page's entry records the
// hash of its source bytes combined with the configuration hash, so any
// config change invalidates everything.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the cache database. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		source_path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		output_path TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Fingerprint hashes source bytes together with the configuration hash.
func Fingerprint(source []byte, configHash string) string {
	h := sha256.New()
	h.Write(source)
	h.Write([]byte{0})
	h.Write([]byte(configHash))
	return hex.EncodeToString(h.Sum(nil))
}

// Unchanged reports whether the recorded fingerprint for sourcePath matches.
func (s *Store) Unchanged(sourcePath, fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored string
	err := s.db.QueryRow(`SELECT fingerprint FROM pages WHERE source_path = ?`, sourcePath).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query cache: %w", err)
	}
	return stored == fingerprint, nil
}

// Record stores the fingerprint and output path for a rendered page.
func (s *Store) Record(sourcePath, fingerprint, outputPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO pages (source_path, fingerprint, output_path) VALUES (?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET fingerprint = excluded.fingerprint, output_path = excluded.output_path`,
		sourcePath, fingerprint, outputPath)
	if err != nil {
		return fmt.Errorf("record cache entry: %w", err)
	}
	return nil
}

// Prune removes entries whose source path is not in the keep set, so deleted
// content does not pin stale cache rows.
func (s *Store) Prune(keep map[string]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT source_path FROM pages`)
	if err != nil {
		return fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return err
		}
		if _, ok := keep[p]; !ok {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range stale {
		if _, err := s.db.Exec(`DELETE FROM pages WHERE source_path = ?`, p); err != nil {
			return fmt.Errorf("prune cache entry: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
