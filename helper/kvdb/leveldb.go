package kvdb

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// client profile: this store holds a handful of journal entries, not
	// chain state, so the allocations stay small
	defaultCache   = 2 // MiB
	defaultHandles = 16
)

// levelDB is the leveldb implementation of the kv storage
type levelDB struct {
	db     *leveldb.DB
	logger hclog.Logger
}

// NewLevelDB opens (creating if needed) a leveldb store at the given path
func NewLevelDB(logger hclog.Logger, path string) (Database, error) {
	options := &opt.Options{
		OpenFilesCacheCapacity: defaultHandles,
		BlockCacheCapacity:     defaultCache * opt.MiB,
		WriteBuffer:            defaultCache * opt.MiB,
	}

	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, fmt.Errorf("kvdb: open %s: %w", path, err)
	}

	return &levelDB{
		db:     db,
		logger: logger.Named("kvdb"),
	}, nil
}

func (l *levelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *levelDB) Get(key []byte) ([]byte, bool, error) {
	value, err := l.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, false, nil
		}

		return nil, false, err
	}

	return value, true, nil
}

func (l *levelDB) Set(k, v []byte) error {
	return l.db.Put(k, v, nil)
}

func (l *levelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

func (l *levelDB) ForEachPrefix(prefix []byte, fn func(k, v []byte) bool) error {
	it := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	for it.Next() {
		k := append([]byte{}, it.Key()...)
		v := append([]byte{}, it.Value()...)

		if !fn(k, v) {
			break
		}
	}

	return it.Error()
}

func (l *levelDB) Close() error {
	return l.db.Close()
}
