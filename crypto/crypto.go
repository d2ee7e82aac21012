package crypto

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec"

	"github.com/recallnet/recall-go/helper/hex"
	"github.com/recallnet/recall-go/types"
)

// ErrInvalidKey is returned when the supplied secret material is not a
// valid secp256k1 scalar
var ErrInvalidKey = errors.New("invalid key material")

const (
	// KeyLength is the raw secret size in bytes
	KeyLength = 32

	// SignatureLength is the recoverable signature size: R || S || recovery id
	SignatureLength = 65
)

var secp256k1N = btcec.S256().N

// Key holds a secp256k1 private key and the address derived from it.
// It performs no network access; signing is a pure function of the key.
type Key struct {
	priv *btcec.PrivateKey
	pub  *btcec.PublicKey
	addr types.Address
}

// NewKey parses a raw 32-byte secret
func NewKey(raw []byte) (*Key, error) {
	if len(raw) != KeyLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), KeyLength)
	}

	d := new(big.Int).SetBytes(raw)
	if d.Sign() == 0 || d.Cmp(secp256k1N) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of curve order", ErrInvalidKey)
	}

	priv, pub := btcec.PrivKeyFromBytes(btcec.S256(), raw)

	return &Key{
		priv: priv,
		pub:  pub,
		addr: PubKeyToAddress(pub),
	}, nil
}

// NewKeyFromString parses a hex encoded secret, with or without the 0x prefix
func NewKeyFromString(str string) (*Key, error) {
	raw, err := hex.DecodeHex(strings.TrimSpace(str))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	return NewKey(raw)
}

// Address returns the account address derived from the public key
func (k *Key) Address() types.Address {
	return k.addr
}

// SignHash produces a deterministic (RFC 6979) recoverable signature over
// the provided digest, formatted as R || S || recovery id.
func (k *Key) SignHash(h types.Hash) ([]byte, error) {
	compact, err := btcec.SignCompact(btcec.S256(), k.priv, h.Bytes(), false)
	if err != nil {
		return nil, err
	}

	// btcec places the header byte first; the wire format wants it last
	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0] - 27

	return sig, nil
}

// SignTx signs the envelope in place, filling V, R, S with the chain-bound
// recovery value, and returns the same envelope.
func (k *Key) SignTx(tx *types.Transaction, chainID uint64) (*types.Transaction, error) {
	if tx.IsSigned() {
		return nil, errors.New("transaction already signed")
	}

	sig, err := k.SignHash(tx.SignHash(chainID))
	if err != nil {
		return nil, err
	}

	tx.R = new(big.Int).SetBytes(sig[:32])
	tx.S = new(big.Int).SetBytes(sig[32:64])
	tx.V = new(big.Int).SetUint64(uint64(sig[64]) + 35 + 2*chainID)
	tx.From = k.addr

	return tx, nil
}

// PubKeyToAddress derives the account address: the last 20 bytes of the
// keccak digest of the uncompressed public key
func PubKeyToAddress(pub *btcec.PublicKey) types.Address {
	buf := types.Keccak256(pub.SerializeUncompressed()[1:])

	return types.BytesToAddress(buf[12:])
}

// RecoverSigner returns the address that produced the R || S || recovery id
// signature over the digest
func RecoverSigner(h types.Hash, sig []byte) (types.Address, error) {
	if len(sig) != SignatureLength {
		return types.ZeroAddress, fmt.Errorf("incorrect signature length %d", len(sig))
	}

	compact := make([]byte, SignatureLength)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])

	pub, _, err := btcec.RecoverCompact(btcec.S256(), compact, h.Bytes())
	if err != nil {
		return types.ZeroAddress, err
	}

	return PubKeyToAddress(pub), nil
}
