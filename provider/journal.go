package provider

import (
	"github.com/recallnet/recall-go/helper/kvdb"
	"github.com/recallnet/recall-go/types"
)

var journalPrefix = []byte("submitted/")

// Journal is the durable record of what was handed to the network. An
// entry is written before the wire call, keyed by the intent fingerprint,
// so that after a crash or a local timeout the caller can find the hash of
// a possibly-committed submission instead of blindly submitting again.
type Journal struct {
	db kvdb.Database
}

func NewJournal(db kvdb.Database) *Journal {
	return &Journal{db: db}
}

func journalKey(fingerprint types.Hash) []byte {
	return append(append([]byte{}, journalPrefix...), fingerprint.Bytes()...)
}

// Record stores fingerprint -> tx hash. A later submission of an
// equivalent intent overwrites the entry; only the latest hash matters
// for reconciliation.
func (j *Journal) Record(fingerprint, txHash types.Hash) error {
	return j.db.Set(journalKey(fingerprint), txHash.Bytes())
}

// Lookup returns the hash of a previously submitted equivalent intent
func (j *Journal) Lookup(fingerprint types.Hash) (types.Hash, bool, error) {
	v, ok, err := j.db.Get(journalKey(fingerprint))
	if err != nil || !ok {
		return types.ZeroHash, false, err
	}

	return types.BytesToHash(v), true, nil
}

// Forget drops the entry, typically once its transaction reached a
// terminal state and was surfaced to the caller
func (j *Journal) Forget(fingerprint types.Hash) error {
	return j.db.Delete(journalKey(fingerprint))
}

func (j *Journal) Close() error {
	return j.db.Close()
}
