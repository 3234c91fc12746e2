package database

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// Cursor iterates over database entries that share a common key prefix, in
// ascending key order.
type Cursor struct {
	iterator iterator.Iterator
	isClosed bool
}

// Next moves the iterator to the next key/value pair. It returns false if the
// iterator is exhausted.
func (c *Cursor) Next() bool {
	if c.isClosed {
		return false
	}
	return c.iterator.Next()
}

// Key returns the key of the current key/value pair. The key is only valid
// until the next call to Next.
func (c *Cursor) Key() ([]byte, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the key of a closed cursor")
	}
	return c.iterator.Key(), nil
}

// Value returns the value of the current key/value pair. The value is only
// valid until the next call to Next.
func (c *Cursor) Value() ([]byte, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the value of a closed cursor")
	}
	return c.iterator.Value(), nil
}

// Close releases the cursor. Any accumulated iteration error is returned.
func (c *Cursor) Close() error {
	if c.isClosed {
		return errors.New("cannot close an already closed cursor")
	}
	c.isClosed = true
	c.iterator.Release()
	return errors.WithStack(c.iterator.Error())
}
