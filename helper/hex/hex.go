package hex

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const hexPrefix = "0x"

// EncodeToHex generates a hex string based on the byte representation, with the '0x' prefix
func EncodeToHex(str []byte) string {
	return hexPrefix + hex.EncodeToString(str)
}

// EncodeToString is a wrapper method for hex.EncodeToString
func EncodeToString(str []byte) string {
	return hex.EncodeToString(str)
}

// DecodeString returns the byte representation of the hex string
func DecodeString(str string) ([]byte, error) {
	return hex.DecodeString(str)
}

// DecodeHex converts a hex string to a byte array
func DecodeHex(str string) ([]byte, error) {
	str = strings.TrimPrefix(str, hexPrefix)

	if len(str)%2 == 1 {
		str = "0" + str
	}

	return hex.DecodeString(str)
}

// MustDecodeHex converts a hex string to a byte array, panicking on failure
func MustDecodeHex(str string) []byte {
	buf, err := DecodeHex(str)
	if err != nil {
		panic(fmt.Errorf("could not decode hex: %w", err))
	}

	return buf
}

// EncodeUint64 encodes a number as a hex string with the '0x' prefix
func EncodeUint64(i uint64) string {
	enc := make([]byte, 2, 10)
	copy(enc, hexPrefix)

	return string(strconv.AppendUint(enc, i, 16))
}

// DecodeUint64 decodes a '0x' prefixed hex string into a number
func DecodeUint64(str string) (uint64, error) {
	str = strings.TrimPrefix(str, hexPrefix)

	return strconv.ParseUint(str, 16, 64)
}

// EncodeBig encodes a big.Int as a hex string with the '0x' prefix
func EncodeBig(b *big.Int) string {
	if b == nil {
		return hexPrefix + "0"
	}

	return hexPrefix + b.Text(16)
}

// DecodeHexToBig converts a '0x' prefixed hex number to a big.Int
func DecodeHexToBig(str string) (*big.Int, error) {
	str = strings.TrimPrefix(str, hexPrefix)

	b, ok := new(big.Int).SetString(str, 16)
	if !ok {
		return nil, fmt.Errorf("failed to convert string '%s' to big.Int", str)
	}

	return b, nil
}
