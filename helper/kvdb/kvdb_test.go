package kvdb

import (
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabases(t *testing.T) map[string]Database {
	t.Helper()

	level, err := NewLevelDB(hclog.NewNullLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = level.Close() })

	return map[string]Database{
		"memory":  NewMemoryDB(),
		"leveldb": level,
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	t.Parallel()

	for name, db := range testDatabases(t) {
		db := db

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, ok, err := db.Get([]byte("missing"))
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, db.Set([]byte("k"), []byte("v1")))

			has, err := db.Has([]byte("k"))
			require.NoError(t, err)
			assert.True(t, has)

			v, ok, err := db.Get([]byte("k"))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []byte("v1"), v)

			// overwrite replaces the value
			require.NoError(t, db.Set([]byte("k"), []byte("v2")))

			v, _, err = db.Get([]byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), v)

			require.NoError(t, db.Delete([]byte("k")))

			has, err = db.Has([]byte("k"))
			require.NoError(t, err)
			assert.False(t, has)

			// deleting a missing key is not an error
			assert.NoError(t, db.Delete([]byte("k")))
		})
	}
}

func TestDatabaseGetReturnsCopy(t *testing.T) {
	t.Parallel()

	db := NewMemoryDB()
	require.NoError(t, db.Set([]byte("k"), []byte("abc")))

	v, _, err := db.Get([]byte("k"))
	require.NoError(t, err)

	v[0] = 'x'

	v, _, err = db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)
}

func TestDatabaseForEachPrefix(t *testing.T) {
	t.Parallel()

	for name, db := range testDatabases(t) {
		db := db

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for i := 0; i < 5; i++ {
				require.NoError(t, db.Set([]byte(fmt.Sprintf("tx/%d", i)), []byte{byte(i)}))
			}

			require.NoError(t, db.Set([]byte("meta/version"), []byte{1}))

			var keys []string

			err := db.ForEachPrefix([]byte("tx/"), func(k, v []byte) bool {
				keys = append(keys, string(k))

				return true
			})
			require.NoError(t, err)

			// keys come back sorted and scoped to the prefix
			assert.Equal(t, []string{"tx/0", "tx/1", "tx/2", "tx/3", "tx/4"}, keys)

			// returning false stops the scan
			count := 0

			err = db.ForEachPrefix([]byte("tx/"), func(k, v []byte) bool {
				count++

				return count < 2
			})
			require.NoError(t, err)
			assert.Equal(t, 2, count)
		})
	}
}

func TestLevelDBPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	db, err := NewLevelDB(hclog.NewNullLogger(), dir)
	require.NoError(t, err)
	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = NewLevelDB(hclog.NewNullLogger(), dir)
	require.NoError(t, err)

	defer db.Close()

	v, ok, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}
