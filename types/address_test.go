package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "0x1234567890123456789012345678901234567890", false},
		{"valid uppercase", "0x1234567890123456789012345678901234567890", false},
		{"missing prefix", "1234567890123456789012345678901234567890", false},
		{"too short", "0x1234", true},
		{"too long", "0x123456789012345678901234567890123456789012", true},
		{"not hex", "0xzz34567890123456789012345678901234567890", true},
		{"empty", "", true},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			addr, err := ParseAddress(test.input)

			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEqual(t, ZeroAddress, addr)
			}
		})
	}
}

func TestAddressRoundTrip(t *testing.T) {
	t.Parallel()

	original := StringToAddress("0xabcdef0123456789abcdef0123456789abcdef01")

	parsed, err := ParseAddress(original.String())
	assert.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestHashRoundTrip(t *testing.T) {
	t.Parallel()

	original := BytesToHash(Keccak256([]byte("content")))

	parsed, err := ParseHash(original.String())
	assert.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestAddressJSONMapKey(t *testing.T) {
	t.Parallel()

	addr := StringToAddress("0x1234567890123456789012345678901234567890")

	encoded, err := json.Marshal(map[Address]uint64{addr: 1})
	assert.NoError(t, err)

	decoded := map[Address]uint64{}
	assert.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, uint64(1), decoded[addr])
}
