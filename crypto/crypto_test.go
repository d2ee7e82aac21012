package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallnet/recall-go/types"
)

func TestNewKeyValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"too short", "abcd"},
		{"too long", strings.Repeat("ab", 33)},
		{"zero scalar", strings.Repeat("00", 32)},
		{"not hex", strings.Repeat("zz", 32)},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewKeyFromString(test.input)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestSignHashRecover(t *testing.T) {
	t.Parallel()

	key, err := NewKeyFromString(strings.Repeat("11", 32))
	require.NoError(t, err)

	hash := types.BytesToHash(types.Keccak256([]byte("payload")))

	sig, err := key.SignHash(hash)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	recovered, err := RecoverSigner(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), recovered)
}

func TestSignHashDeterministic(t *testing.T) {
	t.Parallel()

	key, err := NewKeyFromString(strings.Repeat("22", 32))
	require.NoError(t, err)

	hash := types.BytesToHash(types.Keccak256([]byte("payload")))

	first, err := key.SignHash(hash)
	require.NoError(t, err)

	second, err := key.SignHash(hash)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSignTx(t *testing.T) {
	t.Parallel()

	const chainID = uint64(2481632)

	key, err := NewKeyFromString(strings.Repeat("33", 32))
	require.NoError(t, err)

	to := types.StringToAddress("0x4444444444444444444444444444444444444444")

	tx := &types.Transaction{
		Nonce:    7,
		GasPrice: nil,
		Gas:      21000,
		To:       &to,
		Input:    []byte("input"),
	}

	signed, err := key.SignTx(tx, chainID)
	require.NoError(t, err)
	require.True(t, signed.IsSigned())

	// V folds in the chain id per the replay protection scheme
	v := signed.V.Uint64()
	assert.True(t, v == 35+2*chainID || v == 36+2*chainID)

	recovered, err := RecoverSigner(signed.SignHash(chainID), signatureBytes(signed))
	require.NoError(t, err)
	assert.Equal(t, key.Address(), recovered)
}

func signatureBytes(tx *types.Transaction) []byte {
	sig := make([]byte, 65)

	tx.R.FillBytes(sig[:32])
	tx.S.FillBytes(sig[32:64])

	v := tx.V.Uint64()
	if v >= 35 {
		sig[64] = byte((v - 35) % 2)
	} else {
		sig[64] = byte(v - 27)
	}

	return sig
}
