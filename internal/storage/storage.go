package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	"github.com/gavlegoat/chess/internal/board"
)

const keyMagics = "magics"

// Store wraps BadgerDB for persistent engine data.
type Store struct {
	db *badger.DB
}

// Open opens the store in the platform data directory.
func Open() (*Store, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the store in the given directory.
func OpenAt(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadMagics returns the persisted magic multipliers, or nil if none have
// been saved yet. The caller revalidates them; a stale or corrupt record
// only costs a fresh search.
func (s *Store) LoadMagics() (*board.MagicNumbers, error) {
	var magics *board.MagicNumbers

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyMagics))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			m := &board.MagicNumbers{}
			if err := json.Unmarshal(val, m); err != nil {
				return err
			}
			magics = m
			return nil
		})
	})

	return magics, err
}

// SaveMagics persists the magic multipliers in use.
func (s *Store) SaveMagics(m board.MagicNumbers) error {
	data, err := json.Marshal(&m)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyMagics), data)
	})
}
