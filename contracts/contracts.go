// Package contracts holds the ABI surface of the network's gateway system
// contracts. The bucket machine and credit ledger never hand-encode
// calldata; everything routes through these method tables.
package contracts

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	web3 "github.com/umbracle/go-web3"
	"github.com/umbracle/go-web3/abi"

	"github.com/recallnet/recall-go/types"
)

var ErrBadReturnData = errors.New("contracts: malformed return data")

// mustNewMethod parses a method signature known to be valid at compile time
func mustNewMethod(signature string) *abi.Method {
	m, err := abi.NewMethod(signature)
	if err != nil {
		panic(fmt.Sprintf("contracts: invalid method signature %q: %v", signature, err))
	}

	return m
}

func encodeCall(m *abi.Method, args map[string]interface{}) ([]byte, error) {
	return m.Encode(args)
}

func decodeReturn(m *abi.Method, data []byte) (map[string]interface{}, error) {
	out, err := m.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadReturnData, err)
	}

	return out, nil
}

func asAddress(v interface{}) (types.Address, error) {
	addr, ok := v.(web3.Address)
	if !ok {
		return types.ZeroAddress, ErrBadReturnData
	}

	return types.BytesToAddress(addr[:]), nil
}

func asAddressSlice(v interface{}) ([]types.Address, error) {
	raw, ok := v.([]web3.Address)
	if !ok {
		return nil, ErrBadReturnData
	}

	out := make([]types.Address, len(raw))
	for i, a := range raw {
		out[i] = types.BytesToAddress(a[:])
	}

	return out, nil
}

func asHash(v interface{}) (types.Hash, error) {
	h, ok := v.([32]byte)
	if !ok {
		return types.ZeroHash, ErrBadReturnData
	}

	return types.Hash(h), nil
}

func asHashSlice(v interface{}) ([]types.Hash, error) {
	raw, ok := v.([][32]byte)
	if !ok {
		return nil, ErrBadReturnData
	}

	out := make([]types.Hash, len(raw))
	for i, h := range raw {
		out[i] = types.Hash(h)
	}

	return out, nil
}

func asBig(v interface{}) (*big.Int, error) {
	b, ok := v.(*big.Int)
	if !ok {
		return nil, ErrBadReturnData
	}

	return b, nil
}

func asString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", ErrBadReturnData
	}

	return s, nil
}

func asStringSlice(v interface{}) ([]string, error) {
	s, ok := v.([]string)
	if !ok {
		return nil, ErrBadReturnData
	}

	return s, nil
}

func asBool(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, ErrBadReturnData
	}

	return b, nil
}

func asUint64(v interface{}) (uint64, error) {
	u, ok := v.(uint64)
	if !ok {
		return 0, ErrBadReturnData
	}

	return u, nil
}

func asUint64Slice(v interface{}) ([]uint64, error) {
	u, ok := v.([]uint64)
	if !ok {
		return nil, ErrBadReturnData
	}

	return u, nil
}

func asBoolSlice(v interface{}) ([]bool, error) {
	b, ok := v.([]bool)
	if !ok {
		return nil, ErrBadReturnData
	}

	return b, nil
}

func asBigSlice(v interface{}) ([]*big.Int, error) {
	b, ok := v.([]*big.Int)
	if !ok {
		return nil, ErrBadReturnData
	}

	return b, nil
}

// metadataToPairs flattens a string map into the parallel key/value slices
// the contracts take, in deterministic order
func metadataToPairs(metadata map[string]string) ([]string, []string) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = metadata[k]
	}

	return keys, values
}

// pairsToMetadata rebuilds the map form; mismatched slice lengths are a
// contract bug surfaced as ErrBadReturnData
func pairsToMetadata(keys, values []string) (map[string]string, error) {
	if len(keys) != len(values) {
		return nil, ErrBadReturnData
	}

	if len(keys) == 0 {
		return nil, nil
	}

	m := make(map[string]string, len(keys))
	for i, k := range keys {
		m[k] = values[i]
	}

	return m, nil
}
