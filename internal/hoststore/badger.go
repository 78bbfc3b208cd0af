package hoststore

import (
	"errors"

	"github.com/dgraph-io/badger"

	"github.com/lc/resolvq/internal/log"
)

var _ Store = (*BadgerStore)(nil)

// BadgerStore is a disk-backed implementation of Store on an embedded
// badger database. Hostnames resolved in one run are available in the
// next.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens or creates a badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if errors.Is(err, badger.ErrTruncateNeeded) {
		// clean up after crash
		log.Warnf("hoststore: truncating corrupted value log at %s: this may cause data loss", path)
		opts.Truncate = true
		db, err = badger.Open(opts)
	}
	if err != nil {
		return nil, err
	}

	return &BadgerStore{db: db}, nil
}

// Put inserts or replaces the hostname for addr. Write failures are
// logged and swallowed: the store is enrichment, not a system of record.
func (s *BadgerStore) Put(addr, hostname string) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(addr), []byte(hostname))
	})
	if err != nil {
		log.Errorf("hoststore: writing %s: %v", addr, err)
	}
}

// Get returns the hostname resolved for addr, if any.
func (s *BadgerStore) Get(addr string) (string, bool) {
	var hostname []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(addr))
		if err != nil {
			return err
		}
		hostname, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Errorf("hoststore: reading %s: %v", addr, err)
		}
		return "", false
	}
	return string(hostname), true
}

// Len returns the number of stored pairs.
func (s *BadgerStore) Len() int {
	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		log.Errorf("hoststore: counting pairs: %v", err)
		return 0
	}
	return n
}

// Snapshot returns a copy of all stored pairs.
func (s *BadgerStore) Snapshot() map[string]string {
	out := make(map[string]string)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out[string(item.KeyCopy(nil))] = string(val)
		}
		return nil
	})
	if err != nil {
		log.Errorf("hoststore: snapshotting pairs: %v", err)
	}
	return out
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
