package types

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

var keccakPool = sync.Pool{
	New: func() interface{} {
		return sha3.NewLegacyKeccak256()
	},
}

// Keccak256 computes the legacy keccak digest of the input
func Keccak256(v ...[]byte) []byte {
	h, ok := keccakPool.Get().(hash.Hash)
	if !ok {
		return nil
	}

	defer keccakPool.Put(h)

	h.Reset()

	for _, i := range v {
		h.Write(i)
	}

	return h.Sum(nil)
}
