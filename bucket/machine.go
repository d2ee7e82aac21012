package bucket

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/recallnet/recall-go/account"
	"github.com/recallnet/recall-go/chain"
	"github.com/recallnet/recall-go/contracts"
	"github.com/recallnet/recall-go/provider"
	"github.com/recallnet/recall-go/rpcclient"
	"github.com/recallnet/recall-go/types"
)

const (
	defaultQueryLimit = 100

	// metadataFetchers caps the parallel per-key metadata reads a single
	// Query issues against the RPC endpoint
	metadataFetchers = 8

	defaultResolutionHint = time.Second
	maxResolutionDelay    = 15 * time.Second
)

// Bucket is a created bucket's identity and immutable creation metadata
type Bucket struct {
	Address  types.Address     `json:"address"`
	Owner    types.Address     `json:"owner"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ObjectInfo describes one stored object as recorded on chain
type ObjectInfo struct {
	Key      string            `json:"key"`
	BlobHash types.Hash        `json:"blobHash"`
	Size     uint64            `json:"size"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AddOptions configures Add. The zero value rejects existing keys,
// attaches no metadata and uploads uncompressed.
type AddOptions struct {
	// Overwrite replaces an existing object instead of failing with
	// ErrKeyExists
	Overwrite bool

	// Metadata is attached to the object, immutable afterwards
	Metadata map[string]string

	// Compress zstd-encodes the upload on the wire
	Compress bool

	// Send overrides the transaction pipeline defaults
	Send *provider.SendOptions
}

// GetOptions configures Get. A nil Range reads the whole object.
type GetOptions struct {
	Range *Range
}

// QueryOptions configures Query. Zero values mean no prefix filter,
// first page, a limit of defaultQueryLimit, the latest height, and
// listings without per-object metadata.
type QueryOptions struct {
	Prefix string
	Cursor string
	Limit  uint64

	// Height pins the read to a block for repeatable pagination
	Height uint64

	// WithMetadata fetches each listed object's metadata as well, at the
	// cost of one extra read per object
	WithMetadata bool
}

// QueryResult is one page of a bucket listing, sorted by key
type QueryResult struct {
	Objects    []*ObjectInfo `json:"objects"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

// Config wires a Machine to its collaborators. Provider is required;
// Sender is only needed for mutations, so read-only callers may leave it
// nil; Objects defaults to a client for the deployment's object API.
type Config struct {
	Provider *provider.Provider
	Sender   *account.Sender
	Objects  *ObjectClient
	Metrics  *Metrics
}

// network is the slice of the provider the machine drives: contract
// reads and the signed transaction pipeline
type network interface {
	CallContract(ctx context.Context, to types.Address, input []byte, height uint64) ([]byte, error)
	SendAndConfirm(
		ctx context.Context,
		sender *account.Sender,
		intent *types.Intent,
		opts *provider.SendOptions,
	) (*types.Receipt, error)
}

// Machine drives bucket operations end to end: mutations run through the
// signed transaction pipeline against the gateway contract, content bytes
// move through the object API, and reads are plain contract calls.
type Machine struct {
	logger     hclog.Logger
	provider   network
	sender     *account.Sender
	objects    *ObjectClient
	deployment *chain.Deployment
	metrics    *Metrics
}

func NewMachine(logger hclog.Logger, config *Config) (*Machine, error) {
	if config == nil || config.Provider == nil {
		return nil, errors.New("bucket: provider is required")
	}

	deployment := config.Provider.Deployment()

	objects := config.Objects
	if objects == nil {
		objects = NewObjectClient(logger, deployment.ObjectAPIURL)
	}

	return &Machine{
		logger:     logger.Named("bucket"),
		provider:   config.Provider,
		sender:     config.Sender,
		objects:    objects,
		deployment: deployment,
		metrics:    config.Metrics,
	}, nil
}

var errSenderRequired = errors.New("bucket: a sender is required for mutations")

// Create submits a bucket creation and returns the new bucket, whose
// address is decoded from the transaction's return data. Metadata is
// stored immutably at creation.
func (m *Machine) Create(ctx context.Context, metadata map[string]string) (*Bucket, *types.Receipt, error) {
	if m.sender == nil {
		return nil, nil, errSenderRequired
	}

	owner := m.sender.Address()

	input, err := contracts.EncodeCreateBucket(owner, metadata)
	if err != nil {
		return nil, nil, err
	}

	gateway := m.deployment.Gateway

	receipt, err := m.provider.SendAndConfirm(ctx, m.sender, &types.Intent{
		Kind:  types.CreateBucket,
		To:    &gateway,
		Input: input,
	}, nil)
	if err != nil {
		return nil, receipt, err
	}

	addr, err := contracts.DecodeCreateBucket(receipt.Return)
	if err != nil {
		return nil, receipt, err
	}

	m.logger.Info("bucket created", "address", addr, "owner", owner)

	return &Bucket{
		Address:  addr,
		Owner:    owner,
		Metadata: types.CloneStringMap(metadata),
	}, receipt, nil
}

// Describe reads a bucket's owner and creation metadata
func (m *Machine) Describe(ctx context.Context, bucket types.Address) (*Bucket, error) {
	input, err := contracts.EncodeGetBucket(bucket)
	if err != nil {
		return nil, err
	}

	ret, err := m.provider.CallContract(ctx, m.deployment.Gateway, input, provider.LatestHeight)
	if err != nil {
		return nil, err
	}

	owner, metadata, err := contracts.DecodeGetBucket(ret)
	if err != nil {
		return nil, err
	}

	if owner.IsZero() {
		return nil, ErrBucketNotFound
	}

	return &Bucket{
		Address:  bucket,
		Owner:    owner,
		Metadata: metadata,
	}, nil
}

// Add streams src to the object API, then commits the returned content
// hash under key. Without Overwrite an existing key fails with
// ErrKeyExists before anything is uploaded or submitted; the existence
// check is an optimistic read, so a concurrent writer can still win the
// race and the chain has the final word.
func (m *Machine) Add(
	ctx context.Context,
	bucket types.Address,
	key string,
	src io.Reader,
	opts *AddOptions,
) (*types.Receipt, error) {
	if m.sender == nil {
		return nil, errSenderRequired
	}

	if opts == nil {
		opts = &AddOptions{}
	}

	if !opts.Overwrite {
		head, err := m.head(ctx, bucket, key, provider.LatestHeight)
		if err != nil {
			return nil, err
		}

		if head.Exists {
			return nil, ErrKeyExists
		}
	}

	uploaded, err := m.objects.Upload(ctx, bucket, key, src, opts.Compress)
	if err != nil {
		return nil, err
	}

	m.metrics.UploadedAdd(float64(uploaded.Size))

	input, err := contracts.EncodeAddObject(
		bucket, key, uploaded.Hash, uploaded.Size, opts.Overwrite, opts.Metadata)
	if err != nil {
		return nil, err
	}

	gateway := m.deployment.Gateway

	return m.provider.SendAndConfirm(ctx, m.sender, &types.Intent{
		Kind:  types.AddObject,
		To:    &gateway,
		Input: input,
	}, opts.Send)
}

// Get streams the object's content to dst. A key that is committed on
// chain but whose content has not materialized yet fails with
// ErrNotYetAvailable so callers can poll instead of treating the object
// as gone.
func (m *Machine) Get(
	ctx context.Context,
	bucket types.Address,
	key string,
	dst io.Writer,
	opts *GetOptions,
) error {
	if opts == nil {
		opts = &GetOptions{}
	}

	if opts.Range != nil && opts.Range.End < opts.Range.Start {
		return ErrInvalidRange
	}

	n, err := m.objects.Download(ctx, bucket, key, dst, opts.Range)
	if err == nil {
		m.metrics.DownloadedAdd(float64(n))

		return nil
	}

	if !errors.Is(err, ErrNotFound) {
		return err
	}

	head, headErr := m.head(ctx, bucket, key, provider.LatestHeight)
	if headErr != nil {
		return headErr
	}

	if head.Exists {
		m.metrics.NotYetAvailableInc()

		return ErrNotYetAvailable
	}

	return ErrNotFound
}

// Query lists objects under a prefix, one page per call. Pages are
// re-sorted lexicographically by key so the order is stable for an
// unchanged bucket state regardless of contract iteration order.
func (m *Machine) Query(
	ctx context.Context,
	bucket types.Address,
	opts *QueryOptions,
) (*QueryResult, error) {
	if opts == nil {
		opts = &QueryOptions{}
	}

	limit := opts.Limit
	if limit == 0 {
		limit = defaultQueryLimit
	}

	input, err := contracts.EncodeQueryObjects(bucket, opts.Prefix, opts.Cursor, limit)
	if err != nil {
		return nil, err
	}

	ret, err := m.provider.CallContract(ctx, m.deployment.Gateway, input, opts.Height)
	if err != nil {
		return nil, err
	}

	listing, err := contracts.DecodeQueryObjects(ret)
	if err != nil {
		return nil, err
	}

	objects := make([]*ObjectInfo, len(listing.Keys))
	for i, key := range listing.Keys {
		objects[i] = &ObjectInfo{
			Key:      key,
			BlobHash: listing.BlobHashes[i],
			Size:     listing.Sizes[i],
		}
	}

	if opts.WithMetadata {
		if err := m.fillMetadata(ctx, bucket, objects, opts.Height); err != nil {
			return nil, err
		}
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})

	return &QueryResult{
		Objects:    objects,
		NextCursor: listing.NextCursor,
	}, nil
}

func (m *Machine) fillMetadata(
	ctx context.Context,
	bucket types.Address,
	objects []*ObjectInfo,
	height uint64,
) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(metadataFetchers)

	for _, obj := range objects {
		obj := obj

		group.Go(func() error {
			input, err := contracts.EncodeGetObjectMetadata(bucket, obj.Key)
			if err != nil {
				return err
			}

			ret, err := m.provider.CallContract(groupCtx, m.deployment.Gateway, input, height)
			if err != nil {
				return err
			}

			metadata, err := contracts.DecodeGetObjectMetadata(ret)
			if err != nil {
				return err
			}

			obj.Metadata = metadata

			return nil
		})
	}

	return group.Wait()
}

// Delete removes the object under key. An absent key fails with
// ErrKeyNotFound at submission-read time, with the same optimistic race
// caveat as Add.
func (m *Machine) Delete(
	ctx context.Context,
	bucket types.Address,
	key string,
	opts *provider.SendOptions,
) (*types.Receipt, error) {
	if m.sender == nil {
		return nil, errSenderRequired
	}

	head, err := m.head(ctx, bucket, key, provider.LatestHeight)
	if err != nil {
		return nil, err
	}

	if !head.Exists {
		return nil, ErrKeyNotFound
	}

	input, err := contracts.EncodeDeleteObject(bucket, key)
	if err != nil {
		return nil, err
	}

	gateway := m.deployment.Gateway

	return m.provider.SendAndConfirm(ctx, m.sender, &types.Intent{
		Kind:  types.DeleteObject,
		To:    &gateway,
		Input: input,
	}, opts)
}

// Head reads the on-chain record for key without touching content
func (m *Machine) Head(
	ctx context.Context,
	bucket types.Address,
	key string,
	height uint64,
) (*ObjectInfo, error) {
	head, err := m.head(ctx, bucket, key, height)
	if err != nil {
		return nil, err
	}

	if !head.Exists {
		return nil, ErrKeyNotFound
	}

	return &ObjectInfo{
		Key:      key,
		BlobHash: head.BlobHash,
		Size:     head.Size,
	}, nil
}

// WaitAvailable blocks until the object's content is downloadable or the
// timeout elapses. The deployment's resolution hint seeds the poll
// delay; the hint is advisory and the poller backs off from it.
func (m *Machine) WaitAvailable(
	ctx context.Context,
	bucket types.Address,
	key string,
	timeout time.Duration,
) error {
	head, err := m.head(ctx, bucket, key, provider.LatestHeight)
	if err != nil {
		return err
	}

	if !head.Exists {
		return ErrNotFound
	}

	hint := m.deployment.ResolutionHint
	if hint <= 0 {
		hint = defaultResolutionHint
	}

	backoff := rpcclient.NewBackoff(hint, maxResolutionDelay, 0.2)

	deadline := time.Now().Add(timeout)

	for attempt := 0; ; attempt++ {
		available, err := m.objects.Stat(ctx, bucket, key)
		if err != nil {
			return err
		}

		if available {
			return nil
		}

		delay := backoff.ForAttempt(attempt)
		if time.Now().Add(delay).After(deadline) {
			return ErrNotYetAvailable
		}

		if err := rpcclient.Sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (m *Machine) head(
	ctx context.Context,
	bucket types.Address,
	key string,
	height uint64,
) (*contracts.ObjectHead, error) {
	input, err := contracts.EncodeGetObject(bucket, key)
	if err != nil {
		return nil, err
	}

	ret, err := m.provider.CallContract(ctx, m.deployment.Gateway, input, height)
	if err != nil {
		return nil, err
	}

	return contracts.DecodeGetObject(ret)
}
