package types

import (
	"math/big"
	"sync/atomic"
)

// Transaction is the signed wire envelope every mutating intent is carried in.
// Once the V, R, S fields are set the envelope is immutable; resubmission
// requires building a fresh envelope with a fresh sequence number.
type Transaction struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *Address
	Value    *big.Int
	Input    []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
	From     Address

	// Cache
	size atomic.Value
	hash atomic.Value
}

func (t *Transaction) IsContractCreation() bool {
	return t.To == nil
}

func (t *Transaction) IsSigned() bool {
	return t.R != nil && t.S != nil
}

// Hash returns the keccak digest of the signed RLP encoding
func (t *Transaction) Hash() Hash {
	if hash := t.hash.Load(); hash != nil {
		//nolint:forcetypeassert
		return hash.(Hash)
	}

	hash := BytesToHash(Keccak256(t.MarshalRLP()))
	t.hash.Store(hash)

	return hash
}

// SignHash returns the digest the sender signs: the EIP-155 style encoding
// with the chain identifier folded in, so a signature is only valid on the
// deployment it was produced for.
func (t *Transaction) SignHash(chainID uint64) Hash {
	return BytesToHash(Keccak256(t.MarshalSigningRLP(chainID)))
}

// Copy returns a deep copy
func (t *Transaction) Copy() *Transaction {
	tt := &Transaction{
		Nonce: t.Nonce,
		Gas:   t.Gas,
		From:  t.From,
	}

	tt.GasPrice = new(big.Int)
	if t.GasPrice != nil {
		tt.GasPrice.Set(t.GasPrice)
	}

	if t.To != nil {
		toAddr := *t.To
		tt.To = &toAddr
	}

	tt.Value = new(big.Int)
	if t.Value != nil {
		tt.Value.Set(t.Value)
	}

	if len(t.Input) > 0 {
		tt.Input = make([]byte, len(t.Input))
		copy(tt.Input[:], t.Input[:])
	}

	if t.V != nil {
		tt.V = new(big.Int).SetBits(t.V.Bits())
	}

	if t.R != nil {
		tt.R = new(big.Int).SetBits(t.R.Bits())
	}

	if t.S != nil {
		tt.S = new(big.Int).SetBits(t.S.Bits())
	}

	return tt
}

// Cost returns gas * gasPrice + value
func (t *Transaction) Cost() *big.Int {
	total := new(big.Int).Mul(t.GasPrice, new(big.Int).SetUint64(t.Gas))
	total.Add(total, t.Value)

	return total
}

func (t *Transaction) Size() uint64 {
	if size := t.size.Load(); size != nil {
		sizeVal, ok := size.(uint64)
		if !ok {
			return 0
		}

		return sizeVal
	}

	size := uint64(len(t.MarshalRLP()))
	t.size.Store(size)

	return size
}
