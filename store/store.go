// Package store provides content-addressed persistence for LDFAs: a
// directory of hash-named object directories plus a sqlite index that
// aliases human-readable names (the solver's cache-key names, e.g.
// "winning,side=0,ply_max=007") to the content hash currently backing them.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ldfagames/solver/ldfa"
)

// Store is a content-addressed LDFA cache rooted at a directory:
//
//	<root>/objects/<sha256-hex>/   finalized LDFA layer files + metadata
//	<root>/index.db                name -> hash alias table
type Store struct {
	root string
	db   *sql.DB
}

// Open creates root (and its objects subdirectory) if needed and opens (or
// creates) its alias index.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "objects"), 0o755); err != nil {
		return nil, wrapError(IOFailure, "Open: creating object directory", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(root, "index.db"))
	if err != nil {
		return nil, wrapError(IndexFailure, "Open: opening index", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS aliases (
		name TEXT NOT NULL PRIMARY KEY,
		hash TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, wrapError(IndexFailure, "Open: creating alias table", err)
	}

	return &Store{root: root, db: db}, nil
}

// Close releases the index handle. Object directories are left on disk.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return wrapError(IndexFailure, "Close: closing index", err)
	}
	return nil
}

func (s *Store) objectDir(hash [32]byte) string {
	return filepath.Join(s.root, "objects", hex.EncodeToString(hash[:]))
}

// LoadByHash loads the LDFA stored at the given content hash.
func (s *Store) LoadByHash(hash [32]byte) (*ldfa.LDFA, error) {
	dir := s.objectDir(hash)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, ErrCacheMiss
	}
	d, err := ldfa.Load(dir)
	if err != nil {
		return nil, wrapError(IOFailure, "LoadByHash: loading object", err)
	}
	return d, nil
}

// Load resolves name through the alias index and loads the LDFA it points
// to. Returns ErrCacheMiss (checkable via errors.Is) if name has never been
// saved.
func (s *Store) Load(name string) (*ldfa.LDFA, error) {
	var hashHex string
	row := s.db.QueryRowContext(context.Background(), `SELECT hash FROM aliases WHERE name = ?`, name)
	if err := row.Scan(&hashHex); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCacheMiss
		}
		return nil, wrapError(IndexFailure, "Load: querying alias", err)
	}

	raw, err := hex.DecodeString(hashHex)
	if err != nil || len(raw) != 32 {
		return nil, wrapError(IndexFailure, "Load: corrupt hash in alias table", err)
	}
	var hash [32]byte
	copy(hash[:], raw)

	return s.LoadByHash(hash)
}

// Save writes d to its content-hash object directory (a no-op if that
// object already exists, since the content is identical by construction)
// via a tmp-<uuid> staging directory and atomic rename, then points name at
// its hash in the alias index.
func (s *Store) Save(name string, d *ldfa.LDFA) error {
	hash := d.Hash()
	dir := s.objectDir(hash)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		tmp := filepath.Join(s.root, "objects", "tmp-"+uuid.NewString())
		if err := os.MkdirAll(tmp, 0o755); err != nil {
			return wrapError(IOFailure, "Save: creating staging directory", err)
		}
		if err := d.Save(tmp); err != nil {
			os.RemoveAll(tmp)
			return wrapError(IOFailure, "Save: writing object", err)
		}
		if err := os.Rename(tmp, dir); err != nil {
			if _, statErr := os.Stat(dir); statErr != nil {
				os.RemoveAll(tmp)
				return wrapError(IOFailure, "Save: renaming into place", err)
			}
			os.RemoveAll(tmp) // another writer won the race; same content either way
		}
	}

	hashHex := hex.EncodeToString(hash[:])
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO aliases (name, hash) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET hash = excluded.hash`,
		name, hashHex)
	if err != nil {
		return wrapError(IndexFailure, "Save: upserting alias", err)
	}
	return nil
}

// LoadOrBuild returns the LDFA saved under name, or calls build, saves its
// result under name, and returns that if no saved LDFA exists yet.
func (s *Store) LoadOrBuild(name string, build func() (*ldfa.LDFA, error)) (*ldfa.LDFA, error) {
	d, err := s.Load(name)
	if err == nil {
		return d, nil
	}
	if !isCacheMiss(err) {
		return nil, err
	}

	d, err = build()
	if err != nil {
		return nil, fmt.Errorf("store: LoadOrBuild: building %q: %w", name, err)
	}
	if err := s.Save(name, d); err != nil {
		return nil, err
	}
	return d, nil
}

func isCacheMiss(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == CacheMiss
}
