package types

import (
	"encoding/binary"
	"math/big"
)

// IntentKind enumerates the mutating operations the client can submit.
type IntentKind int

const (
	CreateBucket IntentKind = iota
	AddObject
	DeleteObject
	BuyCredit
	ApproveCredit
	RevokeCredit
	Transfer
)

func (k IntentKind) String() string {
	switch k {
	case CreateBucket:
		return "create_bucket"
	case AddObject:
		return "add_object"
	case DeleteObject:
		return "delete_object"
	case BuyCredit:
		return "buy_credit"
	case ApproveCredit:
		return "approve_credit"
	case RevokeCredit:
		return "revoke_credit"
	case Transfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Intent is a typed, not-yet-signed mutation. The signer address and
// sequence number are bound later, by the transaction pipeline; gas zero
// values mean "estimate before signing".
type Intent struct {
	Kind  IntentKind
	To    *Address
	Value *big.Int
	Input []byte

	// GasLimit of 0 requests estimation
	GasLimit uint64
	// GasPrice of nil requests the network suggested price
	GasPrice *big.Int
}

// Fingerprint identifies the semantic content of the intent regardless of
// the sequence number or gas parameters it is eventually signed with, so a
// caller can check whether an equivalent intent was already submitted
// before submitting again.
func (i *Intent) Fingerprint(chainID uint64, from Address) Hash {
	var kind [8]byte

	binary.BigEndian.PutUint64(kind[:], uint64(i.Kind))

	to := ZeroAddress
	if i.To != nil {
		to = *i.To
	}

	value := []byte{}
	if i.Value != nil {
		value = i.Value.Bytes()
	}

	var chain [8]byte

	binary.BigEndian.PutUint64(chain[:], chainID)

	return BytesToHash(Keccak256(
		chain[:],
		from.Bytes(),
		kind[:],
		to.Bytes(),
		value,
		i.Input,
	))
}
