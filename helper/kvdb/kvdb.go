package kvdb

import "io"

// KVReader wraps the read methods of a backing data store.
type KVReader interface {
	// Has retrieves if a key is present in the key-value data store.
	Has(key []byte) (bool, error)
	// Get retrieves the given key if it's present in the key-value data store.
	Get(key []byte) (value []byte, exists bool, err error)
}

// KVWriter wraps the write methods of a backing data store.
type KVWriter interface {
	// Set inserts the given value into the key-value data store.
	Set(k, v []byte) error
	// Delete removes the key from the key-value data store.
	Delete(key []byte) error
}

// PrefixIterator walks the keys sharing a prefix.
type PrefixIterator interface {
	// ForEachPrefix calls fn for every key with the given prefix, stopping
	// early when fn returns false
	ForEachPrefix(prefix []byte, fn func(k, v []byte) bool) error
}

// Database is the small durable store the client keeps next to itself,
// e.g. the submission journal.
type Database interface {
	KVReader
	KVWriter
	PrefixIterator
	io.Closer
}
