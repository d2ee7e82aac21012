package credit

import (
	"context"
	"encoding/hex"
	"math/big"
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

// registry method mirrors used to build fake contract return data
var (
	mCreditBalance = mustMethod(
		"function creditBalance(address owner) returns (uint256 free, uint256 committed)")

	mApproveCredit = mustMethod(
		"function approveCredit(address delegate, uint256 creditLimit, bool capped, " +
			"uint256 gasFeeLimit, bool gasCapped, uint64 expiry)")

	mRevokeCredit = mustMethod(
		"function revokeCredit(address delegate)")

	mBuyCredit = mustMethod(
		"function buyCredit(address recipient)")

	mApprovalsFrom = mustMethod(
		"function approvalsFrom(address owner) returns (address[] delegates, uint256[] creditLimits, " +
			"bool[] capped, uint256[] gasFeeLimits, bool[] gasCapped, uint64[] expiries, uint256[] used)")

	mApprovalsTo = mustMethod(
		"function approvalsTo(address delegate) returns (address[] owners, uint256[] creditLimits, " +
			"bool[] capped, uint256[] gasFeeLimits, bool[] gasCapped, uint64[] expiries, uint256[] used)")
)

var (
	testAccount  = types.StringToAddress("0x2000000000000000000000000000000000000002")
	testDelegate = types.StringToAddress("0x3000000000000000000000000000000000000003")
)

func encodeReturn(t *testing.T, m *abi.Method, values map[string]interface{}) []byte {
	t.Helper()

	data, err := abi.Encode(values, m.Outputs)
	require.NoError(t, err)

	return data
}

func emptyApprovals(t *testing.T, m *abi.Method, peerField string) []byte {
	t.Helper()

	return encodeReturn(t, m, map[string]interface{}{
		peerField:      []web3.Address{},
		"creditLimits": []*big.Int{},
		"capped":       []bool{},
		"gasFeeLimits": []*big.Int{},
		"gasCapped":    []bool{},
		"expiries":     []uint64{},
		"used":         []*big.Int{},
	})
}

type fakeNetwork struct {
	reads map[string][]byte

	intents []*types.Intent
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
		return nil, assert.AnError
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

	if f.sendErr != nil {
		return nil, f.sendErr
	}

	return f.receipt, nil
}

func newTestLedger(t *testing.T, net *fakeNetwork, withSender bool) *Ledger {
	t.Helper()

	var sender *account.Sender

	if withSender {
		key, err := crypto.NewKeyFromString(strings.Repeat("22", 32))
		require.NoError(t, err)

		sender = account.NewSender(hclog.NewNullLogger(), key)
	}

	return &Ledger{
		logger:   hclog.NewNullLogger(),
		provider: net,
		sender:   sender,
		deployment: &chain.Deployment{
			ChainID:  100,
			Registry: types.StringToAddress("0xff00000000000000000000000000000000000065"),
		},
	}
}

func TestLedgerBalance(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.onRead(mCreditBalance, encodeReturn(t, mCreditBalance, map[string]interface{}{
		"free":      big.NewInt(1500),
		"committed": big.NewInt(300),
	}))
	net.onRead(mApprovalsFrom, encodeReturn(t, mApprovalsFrom, map[string]interface{}{
		"delegates":    []web3.Address{web3.Address(testDelegate)},
		"creditLimits": []*big.Int{big.NewInt(1000)},
		"capped":       []bool{true},
		"gasFeeLimits": []*big.Int{big.NewInt(0)},
		"gasCapped":    []bool{false},
		"expiries":     []uint64{7777},
		"used":         []*big.Int{big.NewInt(40)},
	}))
	net.onRead(mApprovalsTo, emptyApprovals(t, mApprovalsTo, "owners"))

	ledger := newTestLedger(t, net, false)

	balance, err := ledger.Balance(context.Background(), testAccount, provider.LatestHeight)
	require.NoError(t, err)

	assert.Zero(t, balance.Free.Cmp(big.NewInt(1500)))
	assert.Zero(t, balance.Committed.Cmp(big.NewInt(300)))
	assert.Nil(t, balance.ApprovalsTo)

	require.Len(t, balance.ApprovalsFrom, 1)

	approval := balance.ApprovalsFrom[testDelegate]
	require.NotNil(t, approval)
	require.NotNil(t, approval.CreditLimit)
	assert.Zero(t, approval.CreditLimit.Cmp(big.NewInt(1000)))
	assert.Nil(t, approval.GasFeeLimit)
	assert.Equal(t, uint64(7777), approval.Expiry)
	assert.Zero(t, approval.Used.Cmp(big.NewInt(40)))
}

func TestLedgerBuy(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	ledger := newTestLedger(t, net, true)

	receipt, err := ledger.Buy(context.Background(), testAccount, big.NewInt(500), nil)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	require.Len(t, net.intents, 1)

	intent := net.intents[0]
	assert.Equal(t, types.BuyCredit, intent.Kind)
	assert.Equal(t, ledger.deployment.Registry, *intent.To)

	// the purchase amount rides as the transaction value
	require.NotNil(t, intent.Value)
	assert.Zero(t, intent.Value.Cmp(big.NewInt(500)))
	assert.Equal(t, mBuyCredit.ID(), intent.Input[:4])
}

func TestLedgerBuyInvalidAmount(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	ledger := newTestLedger(t, net, true)

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		_, err := ledger.Buy(context.Background(), testAccount, amount, nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}

	assert.Empty(t, net.intents)
}

func TestLedgerApprove(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	ledger := newTestLedger(t, net, true)

	before := time.Now()

	_, err := ledger.Approve(context.Background(), testDelegate, &ApproveOptions{
		Limit: big.NewInt(1000),
		TTL:   time.Hour,
	})
	require.NoError(t, err)
	require.Len(t, net.intents, 1)

	assert.Equal(t, types.ApproveCredit, net.intents[0].Kind)

	raw, err := abi.Decode(mApproveCredit.Inputs, net.intents[0].Input[4:])
	require.NoError(t, err)

	args, ok := raw.(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, web3.Address(testDelegate), args["delegate"])
	assert.Equal(t, true, args["capped"])
	assert.Equal(t, false, args["gasCapped"])

	// the TTL became an absolute expiry anchored at call time
	expiry := args["expiry"].(uint64)
	assert.GreaterOrEqual(t, expiry, uint64(before.Add(time.Hour).Unix()))
	assert.LessOrEqual(t, expiry, uint64(time.Now().Add(time.Hour).Unix()))
}

func TestLedgerApproveDefaults(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	ledger := newTestLedger(t, net, true)

	_, err := ledger.Approve(context.Background(), testDelegate, nil)
	require.NoError(t, err)
	require.Len(t, net.intents, 1)

	raw, err := abi.Decode(mApproveCredit.Inputs, net.intents[0].Input[4:])
	require.NoError(t, err)

	args := raw.(map[string]interface{})

	// no options means uncapped and non-expiring
	assert.Equal(t, false, args["capped"])
	assert.Equal(t, false, args["gasCapped"])
	assert.Equal(t, uint64(0), args["expiry"])
}

func TestLedgerRevoke(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	ledger := newTestLedger(t, net, true)

	receipt, err := ledger.Revoke(context.Background(), testDelegate, nil)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	require.Len(t, net.intents, 1)
	assert.Equal(t, types.RevokeCredit, net.intents[0].Kind)
	assert.Equal(t, mRevokeCredit.ID(), net.intents[0].Input[:4])
}

func TestLedgerMutationsRequireSender(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, newFakeNetwork(), false)

	_, err := ledger.Buy(context.Background(), testAccount, big.NewInt(1), nil)
	assert.ErrorIs(t, err, errSenderRequired)

	_, err = ledger.Approve(context.Background(), testDelegate, nil)
	assert.ErrorIs(t, err, errSenderRequired)

	_, err = ledger.Revoke(context.Background(), testDelegate, nil)
	assert.ErrorIs(t, err, errSenderRequired)
}

func TestLedgerMapRevert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		reason string
		target error
	}{
		{
			name:   "insufficient credit",
			reason: "Insufficient Credit for spend",
			target: ErrInsufficientCredit,
		},
		{
			name:   "approval limit",
			reason: "approval limit exceeded",
			target: ErrApprovalLimitExceeded,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			net := newFakeNetwork()
			net.sendErr = &provider.TxFailedError{
				Receipt: &types.Receipt{
					Status: types.TxFailed,
					Revert: tt.reason,
				},
			}

			ledger := newTestLedger(t, net, true)

			_, err := ledger.Buy(context.Background(), testAccount, big.NewInt(1), nil)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestLedgerMapRevertPassthrough(t *testing.T) {
	t.Parallel()

	net := newFakeNetwork()
	net.sendErr = assert.AnError

	ledger := newTestLedger(t, net, true)

	_, err := ledger.Revoke(context.Background(), testDelegate, nil)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrInsufficientCredit)
}
