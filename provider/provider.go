package provider

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru"

	"github.com/recallnet/recall-go/chain"
	"github.com/recallnet/recall-go/helper/hex"
	"github.com/recallnet/recall-go/helper/kvdb"
	"github.com/recallnet/recall-go/helper/telemetry"
	"github.com/recallnet/recall-go/rpcclient"
	"github.com/recallnet/recall-go/types"
)

// LatestHeight selects the newest network state for read queries; any
// other value pins the read to that block height for repeatable reads
const LatestHeight uint64 = 0

const receiptCacheSize = 512

type Config struct {
	Deployment *chain.Deployment

	// JournalPath is where the submission journal lives; empty keeps it
	// in memory only
	JournalPath string

	// PollInterval is the base receipt poll cadence, defaulted when zero
	PollInterval time.Duration

	// RequestsPerSecond caps the outbound JSON-RPC rate, 0 disables
	RequestsPerSecond float64

	Metrics    *Metrics
	RPCMetrics *rpcclient.Metrics

	// TracerProvider is optional; nil disables tracing
	TracerProvider telemetry.TracerProvider
}

// Provider sends read queries and signed transactions to one deployment
// of the network and tracks submissions in a local journal.
type Provider struct {
	logger     hclog.Logger
	client     *rpcclient.Client
	deployment *chain.Deployment

	heads        *rpcclient.HeadSubscriber
	journal      *Journal
	receipts     *lru.Cache
	metrics      *Metrics
	tracer       telemetry.Tracer
	pollInterval time.Duration
}

func NewProvider(logger hclog.Logger, config *Config) (*Provider, error) {
	if config == nil || config.Deployment == nil {
		return nil, fmt.Errorf("provider: deployment is required")
	}

	if err := config.Deployment.Validate(); err != nil {
		return nil, err
	}

	client, err := rpcclient.NewClient(logger, &rpcclient.Config{
		URL:               config.Deployment.RPCURL,
		RequestsPerSecond: config.RequestsPerSecond,
		Metrics:           config.RPCMetrics,
	})
	if err != nil {
		return nil, err
	}

	var db kvdb.Database
	if config.JournalPath != "" {
		db, err = kvdb.NewLevelDB(logger, config.JournalPath)
		if err != nil {
			return nil, err
		}
	} else {
		db = kvdb.NewMemoryDB()
	}

	receipts, err := lru.New(receiptCacheSize)
	if err != nil {
		return nil, err
	}

	tracerProvider := config.TracerProvider
	if tracerProvider == nil {
		tracerProvider = telemetry.NewNilTracerProvider(context.Background())
	}

	pollInterval := config.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	p := &Provider{
		logger:       logger.Named("provider"),
		client:       client,
		deployment:   config.Deployment,
		journal:      NewJournal(db),
		receipts:     receipts,
		metrics:      config.Metrics,
		tracer:       tracerProvider.NewTracer("provider"),
		pollInterval: pollInterval,
	}

	if config.Deployment.WSURL != "" {
		p.heads = rpcclient.NewHeadSubscriber(logger, config.Deployment.WSURL)
	}

	return p, nil
}

func (p *Provider) Deployment() *chain.Deployment {
	return p.deployment
}

// Client exposes the raw transport for callers with bespoke queries
func (p *Provider) Client() *rpcclient.Client {
	return p.client
}

func (p *Provider) Close() error {
	var result *multierror.Error

	if err := p.journal.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// VerifyChainID checks the endpoint is actually the configured deployment
func (p *Provider) VerifyChainID(ctx context.Context) error {
	var out string
	if err := p.client.Call(ctx, "eth_chainId", &out); err != nil {
		return err
	}

	id, err := hex.DecodeUint64(out)
	if err != nil {
		return err
	}

	if id != p.deployment.ChainID {
		return fmt.Errorf("provider: endpoint chain id %d does not match deployment %q (%d)",
			id, p.deployment.Name, p.deployment.ChainID)
	}

	return nil
}

// NonceAt reads the committed sequence number for the address
func (p *Provider) NonceAt(ctx context.Context, addr types.Address) (uint64, error) {
	var out string
	if err := p.client.Call(ctx, "eth_getTransactionCount", &out, addr, "latest"); err != nil {
		return 0, err
	}

	return hex.DecodeUint64(out)
}

// BalanceAt reads the native token balance at the given height
func (p *Provider) BalanceAt(ctx context.Context, addr types.Address, height uint64) (*big.Int, error) {
	var out string
	if err := p.client.Call(ctx, "eth_getBalance", &out, addr, blockRef(height)); err != nil {
		return nil, err
	}

	return hex.DecodeHexToBig(out)
}

// GasPrice returns the network suggested gas price
func (p *Provider) GasPrice(ctx context.Context) (*big.Int, error) {
	var out string
	if err := p.client.Call(ctx, "eth_gasPrice", &out); err != nil {
		return nil, err
	}

	return hex.DecodeHexToBig(out)
}

// BlockNumber returns the current head height
func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	var out string
	if err := p.client.Call(ctx, "eth_blockNumber", &out); err != nil {
		return 0, err
	}

	return hex.DecodeUint64(out)
}

// CallContract performs a stateless read against a contract, optionally
// pinned to a height for repeatable reads
func (p *Provider) CallContract(ctx context.Context, to types.Address, input []byte, height uint64) ([]byte, error) {
	msg := &callMsg{
		To:   &to,
		Data: hex.EncodeToHex(input),
	}

	var out string
	if err := p.client.Call(ctx, "eth_call", &out, msg, blockRef(height)); err != nil {
		return nil, err
	}

	return hex.DecodeHex(out)
}

// callMsg is the wire form of an execution request
type callMsg struct {
	From  *types.Address `json:"from,omitempty"`
	To    *types.Address `json:"to,omitempty"`
	Value string         `json:"value,omitempty"`
	Data  string         `json:"data,omitempty"`
}

func blockRef(height uint64) string {
	if height == LatestHeight {
		return "latest"
	}

	return hex.EncodeUint64(height)
}
