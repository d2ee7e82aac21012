package types

import (
	"fmt"

	"github.com/recallnet/recall-go/helper/hex"
)

const (
	AddressLength = 20
	HashLength    = 32
)

// Address is a 20-byte account or contract identifier
type Address [AddressLength]byte

// ZeroAddress is the all-zero address
var ZeroAddress = Address{}

func (a Address) String() string {
	return hex.EncodeToHex(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	buf, err := hex.DecodeHex(string(input))
	if err != nil {
		return err
	}

	if len(buf) != AddressLength {
		return fmt.Errorf("incorrect address length %d", len(buf))
	}

	copy(a[:], buf)

	return nil
}

// BytesToAddress sets b to an Address, left-truncating if b is too long
// and left-padding if b is too short
func BytesToAddress(b []byte) Address {
	var a Address

	size := len(b)
	min := min(size, AddressLength)

	copy(a[AddressLength-min:], b[size-min:])

	return a
}

// StringToAddress is the best-effort conversion used for well-known
// constants; ParseAddress rejects malformed input instead
func StringToAddress(str string) Address {
	return BytesToAddress(StringToBytes(str))
}

// ParseAddress parses a '0x' prefixed hex string into an Address
func ParseAddress(str string) (Address, error) {
	var a Address

	err := a.UnmarshalText([]byte(str))

	return a, err
}

// Hash is a 32-byte digest, conventionally keccak256
type Hash [HashLength]byte

// ZeroHash is the all-zero hash
var ZeroHash = Hash{}

func (h Hash) String() string {
	return hex.EncodeToHex(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(input []byte) error {
	buf, err := hex.DecodeHex(string(input))
	if err != nil {
		return err
	}

	if len(buf) != HashLength {
		return fmt.Errorf("incorrect hash length %d", len(buf))
	}

	copy(h[:], buf)

	return nil
}

func BytesToHash(b []byte) Hash {
	var h Hash

	size := len(b)
	min := min(size, HashLength)

	copy(h[HashLength-min:], b[size-min:])

	return h
}

func StringToHash(str string) Hash {
	return BytesToHash(StringToBytes(str))
}

// ParseHash parses a '0x' prefixed hex string into a Hash
func ParseHash(str string) (Hash, error) {
	var h Hash

	err := h.UnmarshalText([]byte(str))

	return h, err
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}
