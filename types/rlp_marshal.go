package types

import (
	"github.com/dogechain-lab/fastrlp"
)

var marshalArenaPool fastrlp.ArenaPool

// MarshalRLP encodes the full signed envelope
func (t *Transaction) MarshalRLP() []byte {
	return t.MarshalRLPTo(nil)
}

func (t *Transaction) MarshalRLPTo(dst []byte) []byte {
	ar := marshalArenaPool.Get()
	dst = t.MarshalRLPWith(ar).MarshalTo(dst)
	marshalArenaPool.Put(ar)

	return dst
}

// MarshalRLPWith marshals the transaction to RLP with a specific fastrlp.Arena
func (t *Transaction) MarshalRLPWith(arena *fastrlp.Arena) *fastrlp.Value {
	vv := arena.NewArray()

	vv.Set(arena.NewUint(t.Nonce))
	vv.Set(arena.NewBigInt(t.GasPrice))
	vv.Set(arena.NewUint(t.Gas))

	// Address may be empty for contract deployment
	if t.To != nil {
		vv.Set(arena.NewCopyBytes((*t.To).Bytes()))
	} else {
		vv.Set(arena.NewNull())
	}

	vv.Set(arena.NewBigInt(t.Value))
	vv.Set(arena.NewCopyBytes(t.Input))

	vv.Set(arena.NewBigInt(t.V))
	vv.Set(arena.NewBigInt(t.R))
	vv.Set(arena.NewBigInt(t.S))

	return vv
}

// MarshalSigningRLP encodes the unsigned payload the signature commits to,
// with the chain identifier in place of V and empty R, S
func (t *Transaction) MarshalSigningRLP(chainID uint64) []byte {
	ar := marshalArenaPool.Get()
	defer marshalArenaPool.Put(ar)

	vv := ar.NewArray()

	vv.Set(ar.NewUint(t.Nonce))
	vv.Set(ar.NewBigInt(t.GasPrice))
	vv.Set(ar.NewUint(t.Gas))

	if t.To != nil {
		vv.Set(ar.NewCopyBytes((*t.To).Bytes()))
	} else {
		vv.Set(ar.NewNull())
	}

	vv.Set(ar.NewBigInt(t.Value))
	vv.Set(ar.NewCopyBytes(t.Input))

	vv.Set(ar.NewUint(chainID))
	vv.Set(ar.NewUint(0))
	vv.Set(ar.NewUint(0))

	return vv.MarshalTo(nil)
}
