package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallnet/recall-go/types"
)

func validDeployment() *Deployment {
	return &Deployment{
		Name:         "test",
		ChainID:      100,
		RPCURL:       "http://127.0.0.1:8645",
		ObjectAPIURL: "http://127.0.0.1:8646",
		Gateway:      types.StringToAddress("0xff00000000000000000000000000000000000064"),
		Registry:     types.StringToAddress("0xff00000000000000000000000000000000000065"),
	}
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"mainnet", "testnet", "localnet"} {
		d, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name)
		assert.NoError(t, d.Validate())
	}

	_, err := ByName("devnet")
	assert.ErrorIs(t, err, ErrUnknownDeployment)
}

func TestNamedDeploymentsAreDistinct(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, MainnetDeployment.ChainID, TestnetDeployment.ChainID)
	assert.NotEqual(t, TestnetDeployment.ChainID, LocalnetDeployment.ChainID)
}

func TestDeploymentValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(d *Deployment)
		errMsg string
	}{
		{
			name:   "valid",
			modify: func(d *Deployment) {},
		},
		{
			name:   "zero chain id",
			modify: func(d *Deployment) { d.ChainID = 0 },
			errMsg: "chain id",
		},
		{
			name:   "missing rpc url",
			modify: func(d *Deployment) { d.RPCURL = "" },
			errMsg: "rpc url",
		},
		{
			name:   "rpc url without scheme",
			modify: func(d *Deployment) { d.RPCURL = "127.0.0.1:8645" },
			errMsg: "rpc url",
		},
		{
			name:   "missing object api url",
			modify: func(d *Deployment) { d.ObjectAPIURL = "" },
			errMsg: "object api url",
		},
		{
			name:   "zero gateway",
			modify: func(d *Deployment) { d.Gateway = types.Address{} },
			errMsg: "gateway",
		},
		{
			name:   "zero registry",
			modify: func(d *Deployment) { d.Registry = types.Address{} },
			errMsg: "registry",
		},
		{
			name:   "ws url is optional",
			modify: func(d *Deployment) { d.WSURL = "" },
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := validDeployment()
			tt.modify(d)

			err := d.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestImportFromJSON(t *testing.T) {
	t.Parallel()

	d, err := ImportFromJSON([]byte(`{
		"name": "staging",
		"chainId": 31415,
		"rpcUrl": "https://evm.staging.example.com",
		"objectApiUrl": "https://objects.staging.example.com",
		"gateway": "0xff00000000000000000000000000000000000064",
		"registry": "0xff00000000000000000000000000000000000065",
		"resolutionHint": 1000000000
	}`))
	require.NoError(t, err)

	assert.Equal(t, "staging", d.Name)
	assert.Equal(t, uint64(31415), d.ChainID)
	assert.Equal(t, types.StringToAddress("0xff00000000000000000000000000000000000064"), d.Gateway)

	_, err = ImportFromJSON([]byte(`{not json`))
	assert.Error(t, err)

	// parses but fails validation
	_, err = ImportFromJSON([]byte(`{"name": "bad", "chainId": 1}`))
	assert.Error(t, err)
}

func TestImportFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deployment.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "file",
		"chainId": 7,
		"rpcUrl": "http://localhost:8645",
		"objectApiUrl": "http://localhost:8646",
		"gateway": "0xff00000000000000000000000000000000000064",
		"registry": "0xff00000000000000000000000000000000000065"
	}`), 0o600))

	d, err := ImportFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file", d.Name)

	_, err = ImportFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
