package bucket

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	web3 "github.com/umbracle/go-web3"
	"github.com/umbracle/go-web3/abi"

	"github.com/recallnet/recall-go/account"
	"github.com/recallnet/recall-go/chain"
	"github.com/recallnet/recall-go/crypto"
	"github.com/recallnet/recall-go/provider"
	"github.com/recallnet/recall-go/types"
)

func mustMethod(signature string) *abi.Method {
	m, err := abi.NewMethod(signature)
	if err != nil {
		panic(err)
	}

	return m
}

// gateway method mirrors used to build fake contract return data
var (
	mGetObject = mustMethod(
		"function getObject(address bucket, string key) returns (bytes32 blobHash, uint64 size, bool exists)")

	mGetObjectMetadata = mustMethod(
		"function getObjectMetadata(address bucket, string key) returns (string[] metaKeys, string[] metaValues)")

	mQueryObjects = mustMethod(
		"function queryObjects(address bucket, string prefix, string cursor, uint64 max) returns " +
			"(string[] keys, bytes32[] blobHashes, uint64[] sizes, string nextCursor)")

	mGetBucket = mustMethod(
		"function getBucket(address bucket) returns (address owner, string[] metaKeys, string[] metaValues)")

	mCreateBucket = mustMethod(
		"function createBucket(address owner, string[] metaKeys, string[] metaValues) returns (address bucket)")

	mAddObject = mustMethod(
		"function addObject(address bucket, string key, bytes32 blobHash, uint64 size, bool overwrite, " +
			"string[] metaKeys, string[] metaValues)")

	mDeleteObject = mustMethod(
		"function deleteObject(address bucket, string key)")
)

func encodeReturn(t *testing.T, m *abi.Method, values map[string]interface{}) []byte {
	t.Helper()

	data, err := abi.Encode(values, m.Outputs)
	require.NoError(t, err)

	return data
}

func headReturn(t *testing.T, blobHash types.Hash, size uint64, exists bool) []byte {
	t.Helper()

	return encodeReturn(t, mGetObject, map[string]interface{}{
		"blobHash": [32]byte(blobHash),
		"size":     size,
		"exists":   exists,
	})
}

// fakeNetwork dispatches contract reads by method selector and records
// pipeline submissions
type fakeNetwork struct {
	reads map[string][]byte

	intents []*types.Intent
	opts    []*provider.SendOptions
	receipt *types.Receipt
	sendErr error
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{
		reads: map[string][]byte{},
		receipt: &types.Receipt{
			Status: types.TxCommitted,
		},
	}
}

func (f *fakeNetwork) onRead(m *abi.Method, ret []byte) {
	f.reads[hex.EncodeToString(m.ID())] = ret
}

func (f *fakeNetwork) CallContract(
	ctx context.Context,
	to types.Address,
	input []byte,
	height uint64,
) ([]byte, error) {
	ret, ok := f.reads[hex.EncodeToString(input[:4])]
	if !ok {
		return nil, ErrBucketNotFound
	}

	return ret, nil
}

func (f *fakeNetwork) SendAndConfirm(
	ctx context.Context,
	sender *account.Sender,
	intent *types.Intent,
	opts *provider.SendOptions,
) (*types.Receipt, error) {
	f.intents = append(f.intents, intent)
	f.opts = append(f.opts, opts)

	if f.sendErr != nil {
		return nil, f.sendErr
	}

	return f.receipt, nil
}

func testDeployment() *chain.Deployment {
	return &chain.Deployment{
		Name:           "test",
		ChainID:        100,
		RPCURL:         "http://127.0.0.1:1",
		ObjectAPIURL:   "http://127.0.0.1:1",
		Gateway:        types.StringToAddress("0xff00000000000000000000000000000000000064"),
		Registry:       types.StringToAddress("0xff00000000000000000000000000000000000065"),
		ResolutionHint: time.Millisecond,
	}
}

func newTestMachine(t *testing.T, net *fakeNetwork, withSender bool) (*Machine, *objectAPIStub) {
	t.Helper()

	objects, stub := newTestObjectClient(t)

	var sender *account.Sender

	if withSender {
		key, err := crypto.NewKeyFromString(strings.Repeat("11", 32))
		require.NoError(t, err)

		sender = account.NewSender(hclog.NewNullLogger(), key)
	}

	return &Machine{
		logger:     hclog.NewNullLogger(),
		provider:   net,
		sender:     sender,
		objects:    objects,
		deployment: testDeployment(),
	}, stub
}

func TestMachineCreate(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.receipt.Return = encodeReturn(t, mCreateBucket, map[string]interface{}{
		"bucket": web3.Address(testBucketAddr),
	})

	m, _ := newTestMachine(t, net, true)

	bucket, receipt, err := m.Create(context.Background(), map[string]string{"app": "ci"})
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Equal(t, testBucketAddr, bucket.Address)
	assert.Equal(t, m.sender.Address(), bucket.Owner)
	assert.Equal(t, map[string]string{"app": "ci"}, bucket.Metadata)

	require.Len(t, net.intents, 1)
	assert.Equal(t, types.CreateBucket, net.intents[0].Kind)
	assert.Equal(t, m.deployment.Gateway, *net.intents[0].To)
}

func TestMachineCreateRequiresSender(t *testing.T) {
	t.Parallel()

	m, _ := newTestMachine(t, newFakeNetwork(), false)

	_, _, err := m.Create(context.Background(), nil)
	assert.ErrorIs(t, err, errSenderRequired)
}

func TestMachineDescribe(t *testing.T) {
	t.Parallel()

	owner := types.StringToAddress("0x2000000000000000000000000000000000000002")

	net := newFakeNetwork()
	net.onRead(mGetBucket, encodeReturn(t, mGetBucket, map[string]interface{}{
		"owner":      web3.Address(owner),
		"metaKeys":   []string{"app"},
		"metaValues": []string{"ci"},
	}))

	m, _ := newTestMachine(t, net, false)

	bucket, err := m.Describe(context.Background(), testBucketAddr)
	require.NoError(t, err)
	assert.Equal(t, owner, bucket.Owner)
	assert.Equal(t, map[string]string{"app": "ci"}, bucket.Metadata)
}

func TestMachineDescribeUnknownBucket(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetBucket, encodeReturn(t, mGetBucket, map[string]interface{}{
		"owner":      web3.Address{},
		"metaKeys":   []string{},
		"metaValues": []string{},
	}))

	m, _ := newTestMachine(t, net, false)

	_, err := m.Describe(context.Background(), testBucketAddr)
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestMachineAdd(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 0, false))

	m, stub := newTestMachine(t, net, true)

	content := []byte("hello recall")

	receipt, err := m.Add(context.Background(), testBucketAddr, "greeting", bytes.NewReader(content), nil)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	// the content reached the object API and the commit went on chain
	assert.Equal(t, content, stub.content)
	require.Len(t, net.intents, 1)
	assert.Equal(t, types.AddObject, net.intents[0].Kind)
	assert.Equal(t, mAddObject.ID(), net.intents[0].Input[:4])
}

func TestMachineAddExistingKey(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 10, true))

	m, stub := newTestMachine(t, net, true)

	_, err := m.Add(context.Background(), testBucketAddr, "greeting", strings.NewReader("x"), nil)
	assert.ErrorIs(t, err, ErrKeyExists)

	// nothing was uploaded or submitted
	assert.Nil(t, stub.content)
	assert.Empty(t, net.intents)
}

func TestMachineAddOverwrite(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 10, true))

	m, _ := newTestMachine(t, net, true)

	_, err := m.Add(context.Background(), testBucketAddr, "greeting", strings.NewReader("x"), &AddOptions{
		Overwrite: true,
	})
	require.NoError(t, err)
	require.Len(t, net.intents, 1)
}

func TestMachineGet(t *testing.T) {
	t.Parallel()

	m, stub := newTestMachine(t, newFakeNetwork(), false)
	stub.key = "greeting"
	stub.content = []byte("hello")

	var out bytes.Buffer

	require.NoError(t, m.Get(context.Background(), testBucketAddr, "greeting", &out, nil))
	assert.Equal(t, "hello", out.String())
}

func TestMachineGetInvalidRange(t *testing.T) {
	t.Parallel()

	m, _ := newTestMachine(t, newFakeNetwork(), false)

	err := m.Get(context.Background(), testBucketAddr, "k", io.Discard, &GetOptions{
		Range: &Range{Start: 9, End: 3},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestMachineGetNotYetAvailable(t *testing.T) {
	t.Parallel()

	// committed on chain, content not yet resolved off chain
	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 5, true))

	m, _ := newTestMachine(t, net, false)

	err := m.Get(context.Background(), testBucketAddr, "pending", io.Discard, nil)
	assert.ErrorIs(t, err, ErrNotYetAvailable)
}

func TestMachineGetMissing(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 0, false))

	m, _ := newTestMachine(t, net, false)

	err := m.Get(context.Background(), testBucketAddr, "nope", io.Discard, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNotYetAvailable)
}

func TestMachineQuery(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mQueryObjects, encodeReturn(t, mQueryObjects, map[string]interface{}{
		"keys":       []string{"b", "a", "c"},
		"blobHashes": [][32]byte{{1}, {2}, {3}},
		"sizes":      []uint64{10, 20, 30},
		"nextCursor": "c",
	}))

	m, _ := newTestMachine(t, net, false)

	result, err := m.Query(context.Background(), testBucketAddr, &QueryOptions{Prefix: ""})
	require.NoError(t, err)
	require.Len(t, result.Objects, 3)

	// pages come back sorted by key regardless of contract order
	assert.Equal(t, "a", result.Objects[0].Key)
	assert.Equal(t, "b", result.Objects[1].Key)
	assert.Equal(t, "c", result.Objects[2].Key)
	assert.Equal(t, uint64(20), result.Objects[0].Size)
	assert.Equal(t, "c", result.NextCursor)
}

func TestMachineQueryWithMetadata(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mQueryObjects, encodeReturn(t, mQueryObjects, map[string]interface{}{
		"keys":       []string{"a"},
		"blobHashes": [][32]byte{{1}},
		"sizes":      []uint64{10},
		"nextCursor": "",
	}))
	net.onRead(mGetObjectMetadata, encodeReturn(t, mGetObjectMetadata, map[string]interface{}{
		"metaKeys":   []string{"content-type"},
		"metaValues": []string{"text/plain"},
	}))

	m, _ := newTestMachine(t, net, false)

	result, err := m.Query(context.Background(), testBucketAddr, &QueryOptions{WithMetadata: true})
	require.NoError(t, err)
	require.Len(t, result.Objects, 1)
	assert.Equal(t, map[string]string{"content-type": "text/plain"}, result.Objects[0].Metadata)
}

func TestMachineDelete(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 5, true))

	m, _ := newTestMachine(t, net, true)

	receipt, err := m.Delete(context.Background(), testBucketAddr, "greeting", nil)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	require.Len(t, net.intents, 1)
	assert.Equal(t, types.DeleteObject, net.intents[0].Kind)
	assert.Equal(t, mDeleteObject.ID(), net.intents[0].Input[:4])
}

func TestMachineDeleteMissingKey(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 0, false))

	m, _ := newTestMachine(t, net, true)

	_, err := m.Delete(context.Background(), testBucketAddr, "nope", nil)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Empty(t, net.intents)
}

func TestMachineHead(t *testing.T) {
	t.Parallel()

	blobHash := types.BytesToHash([]byte{0xaa})

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, blobHash, 123, true))

	m, _ := newTestMachine(t, net, false)

	info, err := m.Head(context.Background(), testBucketAddr, "greeting", provider.LatestHeight)
	require.NoError(t, err)
	assert.Equal(t, blobHash, info.BlobHash)
	assert.Equal(t, uint64(123), info.Size)
}

func TestMachineWaitAvailable(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 5, true))

	m, stub := newTestMachine(t, net, false)
	stub.key = "greeting"
	stub.content = []byte("hello")

	assert.NoError(t, m.WaitAvailable(context.Background(), testBucketAddr, "greeting", time.Second))
}

func TestMachineWaitAvailableTimesOut(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 5, true))

	m, _ := newTestMachine(t, net, false)

	err := m.WaitAvailable(context.Background(), testBucketAddr, "pending", 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrNotYetAvailable)
}

func TestMachineWaitAvailableUnknownKey(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mGetObject, headReturn(t, types.ZeroHash, 0, false))

	m, _ := newTestMachine(t, net, false)

	err := m.WaitAvailable(context.Background(), testBucketAddr, "nope", time.Second)
	assert.ErrorIs(t, err, ErrNotFound)
}
