// Package database provides a thin goleveldb-backed key/value store used to
// persist the block index between runs.
package database

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbutil "github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound denotes that the requested key was not found in the database.
var ErrNotFound = errors.New("key not found")

// DB defines a key/value database backed by leveldb.
type DB struct {
	ldb *leveldb.DB
}

// Open opens (or creates, if it doesn't exist) a leveldb database in the
// given path.
func Open(path string) (*DB, error) {
	ldb, err := leveldb.OpenFile(path, Options())
	if err != nil {
		return nil, errors.Wrapf(err, "error opening leveldb in %s", path)
	}
	return &DB{ldb: ldb}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return errors.WithStack(db.ldb.Close())
}

// Put sets the value of the given key. It overwrites any previous value for
// that key.
func (db *DB) Put(key, value []byte) error {
	return errors.WithStack(db.ldb.Put(key, value, nil))
}

// Get gets the value of the given key. It returns ErrNotFound if the given
// key does not exist.
func (db *DB) Get(key []byte) ([]byte, error) {
	data, err := db.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "key %x not found", key)
		}
		return nil, errors.WithStack(err)
	}
	return data, nil
}

// Has returns true if the database does contain the given key.
func (db *DB) Has(key []byte) (bool, error) {
	exists, err := db.ldb.Has(key, nil)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return exists, nil
}

// Delete deletes the value for the given key. Will not return an error if the
// key doesn't exist.
func (db *DB) Delete(key []byte) error {
	return errors.WithStack(db.ldb.Delete(key, nil))
}

// Cursor begins a new cursor over all of the keys that start with the given
// prefix, in ascending key order.
func (db *DB) Cursor(prefix []byte) *Cursor {
	iterator := db.ldb.NewIterator(ldbutil.BytesPrefix(prefix), nil)
	return &Cursor{iterator: iterator}
}
