package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/recallnet/recall-go/types"
)

// Deployment describes one reachable installation of the network. There is
// no implicit default: callers select a deployment explicitly, either one of
// the named ones below or a record imported from a file.
type Deployment struct {
	// Name identifies the deployment in logs and CLI output
	Name string `json:"name"`

	// ChainID is the network identifier folded into every signature
	ChainID uint64 `json:"chainId"`

	// RPCURL is the JSON-RPC endpoint for queries and submission
	RPCURL string `json:"rpcUrl"`

	// WSURL is the optional websocket endpoint used for head
	// notifications; empty means confirmation is poll-only
	WSURL string `json:"wsUrl,omitempty"`

	// ObjectAPIURL serves object bytes once mutations resolve off-chain
	ObjectAPIURL string `json:"objectApiUrl"`

	// Gateway is the bucket-manager system contract
	Gateway types.Address `json:"gateway"`

	// Registry is the credit-manager system contract
	Registry types.Address `json:"registry"`

	// ResolutionHint seeds the availability poller's backoff. It is a
	// hint about how long committed mutations take to materialize in the
	// object API, never a guaranteed delay.
	ResolutionHint time.Duration `json:"resolutionHint,omitempty"`
}

var (
	// MainnetDeployment is the production network
	MainnetDeployment = &Deployment{
		Name:           "mainnet",
		ChainID:        2481632,
		RPCURL:         "https://evm.mainnet.recall.network",
		WSURL:          "wss://evm.mainnet.recall.network/ws",
		ObjectAPIURL:   "https://objects.mainnet.recall.network",
		Gateway:        types.StringToAddress("0xff00000000000000000000000000000000000064"),
		Registry:       types.StringToAddress("0xff00000000000000000000000000000000000065"),
		ResolutionHint: 2 * time.Second,
	}

	// TestnetDeployment is the public test network
	TestnetDeployment = &Deployment{
		Name:           "testnet",
		ChainID:        2481631,
		RPCURL:         "https://evm.testnet.recall.network",
		WSURL:          "wss://evm.testnet.recall.network/ws",
		ObjectAPIURL:   "https://objects.testnet.recall.network",
		Gateway:        types.StringToAddress("0xff00000000000000000000000000000000000064"),
		Registry:       types.StringToAddress("0xff00000000000000000000000000000000000065"),
		ResolutionHint: 2 * time.Second,
	}

	// LocalnetDeployment targets a single-node developer network
	LocalnetDeployment = &Deployment{
		Name:           "localnet",
		ChainID:        248163216,
		RPCURL:         "http://127.0.0.1:8645",
		ObjectAPIURL:   "http://127.0.0.1:8646",
		Gateway:        types.StringToAddress("0xff00000000000000000000000000000000000064"),
		Registry:       types.StringToAddress("0xff00000000000000000000000000000000000065"),
		ResolutionHint: 250 * time.Millisecond,
	}
)

var namedDeployments = map[string]*Deployment{
	MainnetDeployment.Name:  MainnetDeployment,
	TestnetDeployment.Name:  TestnetDeployment,
	LocalnetDeployment.Name: LocalnetDeployment,
}

var (
	ErrUnknownDeployment = errors.New("unknown deployment")

	errNoRPCURL       = errors.New("deployment: rpc url is required")
	errNoObjectAPIURL = errors.New("deployment: object api url is required")
	errNoChainID      = errors.New("deployment: chain id must not be zero")
	errNoGateway      = errors.New("deployment: gateway address must not be zero")
	errNoRegistry     = errors.New("deployment: registry address must not be zero")
)

// ByName resolves one of the named deployments
func ByName(name string) (*Deployment, error) {
	d, ok := namedDeployments[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDeployment, name)
	}

	return d, nil
}

// ImportFromFile reads and validates a deployment record from a JSON file
func ImportFromFile(path string) (*Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ImportFromJSON(data)
}

// ImportFromJSON parses and validates a deployment record
func ImportFromJSON(data []byte) (*Deployment, error) {
	var d Deployment

	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("deployment: failed to parse: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Validate checks the record is complete enough to reach the network
func (d *Deployment) Validate() error {
	if d.ChainID == 0 {
		return errNoChainID
	}

	if err := checkURL(d.RPCURL); err != nil {
		return fmt.Errorf("%w: %s", errNoRPCURL, urlDetail(d.RPCURL, err))
	}

	if err := checkURL(d.ObjectAPIURL); err != nil {
		return fmt.Errorf("%w: %s", errNoObjectAPIURL, urlDetail(d.ObjectAPIURL, err))
	}

	if d.WSURL != "" {
		if _, err := url.Parse(d.WSURL); err != nil {
			return fmt.Errorf("deployment: invalid ws url %q: %w", d.WSURL, err)
		}
	}

	if d.Gateway.IsZero() {
		return errNoGateway
	}

	if d.Registry.IsZero() {
		return errNoRegistry
	}

	return nil
}

func checkURL(raw string) error {
	if raw == "" {
		return errors.New("empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if u.Scheme == "" || u.Host == "" {
		return errors.New("missing scheme or host")
	}

	return nil
}

func urlDetail(raw string, err error) string {
	if raw == "" {
		return "not set"
	}

	return fmt.Sprintf("%q: %s", raw, err)
}
