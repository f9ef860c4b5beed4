package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a KV persisted in an embedded BadgerDB directory.
type Badger struct {
	db    *badger.DB
	owned bool
}

// OpenBadger opens (or creates) a BadgerDB at path. The returned store
// closes the database on Close.
func OpenBadger(path string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &Badger{db: db, owned: true}, nil
}

// NewBadgerFromDB wraps an already opened database. Close leaves it open.
func NewBadgerFromDB(db *badger.DB) *Badger {
	return &Badger{db: db}
}

func (b *Badger) Get(_ context.Context, key string) (string, bool, error) {
	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store.Badger.Get: %w", err)
	}
	return value, true, nil
}

func (b *Badger) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("store.Badger.Set: %w", err)
	}
	return nil
}

func (b *Badger) Remove(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store.Badger.Remove: %w", err)
	}
	return nil
}

func (b *Badger) Close() error {
	if !b.owned {
		return nil
	}
	return b.db.Close()
}
