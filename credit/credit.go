// Package credit manages the account credit that pays for object storage:
// balances, purchases, and spend delegation between accounts.
package credit

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/recallnet/recall-go/account"
	"github.com/recallnet/recall-go/chain"
	"github.com/recallnet/recall-go/contracts"
	"github.com/recallnet/recall-go/provider"
	"github.com/recallnet/recall-go/types"
)

var (
	// ErrInvalidAmount is returned by Buy for a zero or negative amount
	ErrInvalidAmount = errors.New("credit amount must be positive")

	// ErrInsufficientCredit is the mapped revert for spends exceeding the
	// payer's free balance
	ErrInsufficientCredit = errors.New("insufficient credit")

	// ErrApprovalLimitExceeded is the mapped revert for delegated spends
	// exceeding the approval's cumulative limit
	ErrApprovalLimitExceeded = errors.New("approval limit exceeded")
)

// Approval is one spend delegation as recorded on chain. Nil limits mean
// uncapped; a zero Expiry means the approval does not expire.
type Approval struct {
	CreditLimit *big.Int `json:"creditLimit,omitempty"`
	GasFeeLimit *big.Int `json:"gasFeeLimit,omitempty"`
	Expiry      uint64   `json:"expiry,omitempty"`
	Used        *big.Int `json:"used"`
}

// Balance is an account's full credit standing at one height
type Balance struct {
	Free      *big.Int `json:"free"`
	Committed *big.Int `json:"committed"`

	// ApprovalsFrom maps delegate address to the approval this account
	// granted it
	ApprovalsFrom map[types.Address]*Approval `json:"approvalsFrom,omitempty"`

	// ApprovalsTo maps owner address to the approval it granted this
	// account
	ApprovalsTo map[types.Address]*Approval `json:"approvalsTo,omitempty"`
}

// ApproveOptions bounds an approval. Nil Limit and GasFeeLimit mean
// uncapped; a Limit of zero is a real zero cap, rejecting every delegated
// spend. A zero TTL means the approval never expires.
type ApproveOptions struct {
	Limit       *big.Int
	GasFeeLimit *big.Int
	TTL         time.Duration

	Send *provider.SendOptions
}

// network is the slice of the provider the ledger drives: contract reads
// and the signed transaction pipeline
type network interface {
	CallContract(ctx context.Context, to types.Address, input []byte, height uint64) ([]byte, error)
	SendAndConfirm(
		ctx context.Context,
		sender *account.Sender,
		intent *types.Intent,
		opts *provider.SendOptions,
	) (*types.Receipt, error)
}

// Ledger drives credit operations. Mutations run through the same signed
// transaction pipeline as bucket operations, against the registry
// contract.
type Ledger struct {
	logger     hclog.Logger
	provider   network
	sender     *account.Sender
	deployment *chain.Deployment
}

func NewLedger(logger hclog.Logger, p *provider.Provider, sender *account.Sender) (*Ledger, error) {
	if p == nil || sender == nil {
		return nil, errors.New("credit: provider and sender are required")
	}

	return &Ledger{
		logger:     logger.Named("credit"),
		provider:   p,
		sender:     sender,
		deployment: p.Deployment(),
	}, nil
}

// NewReader builds a ledger capable of reads only; mutations fail
func NewReader(logger hclog.Logger, p *provider.Provider) (*Ledger, error) {
	if p == nil {
		return nil, errors.New("credit: provider is required")
	}

	return &Ledger{
		logger:     logger.Named("credit"),
		provider:   p,
		deployment: p.Deployment(),
	}, nil
}

var errSenderRequired = errors.New("credit: a sender is required for mutations")

// Balance reads the account's credit standing at the given height, with
// the balance and both approval directions fetched in parallel
func (l *Ledger) Balance(ctx context.Context, addr types.Address, height uint64) (*Balance, error) {
	var (
		balance *contracts.CreditBalance
		from    []*contracts.Approval
		to      []*contracts.Approval
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		input, err := contracts.EncodeCreditBalance(addr)
		if err != nil {
			return err
		}

		ret, err := l.provider.CallContract(groupCtx, l.deployment.Registry, input, height)
		if err != nil {
			return err
		}

		balance, err = contracts.DecodeCreditBalance(ret)

		return err
	})

	group.Go(func() error {
		input, err := contracts.EncodeApprovalsFrom(addr)
		if err != nil {
			return err
		}

		ret, err := l.provider.CallContract(groupCtx, l.deployment.Registry, input, height)
		if err != nil {
			return err
		}

		from, err = contracts.DecodeApprovalsFrom(ret)

		return err
	})

	group.Go(func() error {
		input, err := contracts.EncodeApprovalsTo(addr)
		if err != nil {
			return err
		}

		ret, err := l.provider.CallContract(groupCtx, l.deployment.Registry, input, height)
		if err != nil {
			return err
		}

		to, err = contracts.DecodeApprovalsTo(ret)

		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &Balance{
		Free:          balance.Free,
		Committed:     balance.Committed,
		ApprovalsFrom: approvalMap(from),
		ApprovalsTo:   approvalMap(to),
	}, nil
}

func approvalMap(entries []*contracts.Approval) map[types.Address]*Approval {
	if len(entries) == 0 {
		return nil
	}

	out := make(map[types.Address]*Approval, len(entries))
	for _, e := range entries {
		out[e.Peer] = &Approval{
			CreditLimit: e.CreditLimit,
			GasFeeLimit: e.GasFeeLimit,
			Expiry:      e.Expiry,
			Used:        e.Used,
		}
	}

	return out
}

// Buy converts the given amount of native funds into recipient's free
// credit. The amount rides as the transaction value.
func (l *Ledger) Buy(
	ctx context.Context,
	recipient types.Address,
	amount *big.Int,
	opts *provider.SendOptions,
) (*types.Receipt, error) {
	if l.sender == nil {
		return nil, errSenderRequired
	}

	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	input, err := contracts.EncodeBuyCredit(recipient)
	if err != nil {
		return nil, err
	}

	registry := l.deployment.Registry

	receipt, err := l.provider.SendAndConfirm(ctx, l.sender, &types.Intent{
		Kind:  types.BuyCredit,
		To:    &registry,
		Value: amount,
		Input: input,
	}, opts)

	return receipt, l.mapRevert(err)
}

// Approve grants delegate the right to spend the sender's credit,
// replacing any prior approval for the same delegate. The TTL is
// converted to an absolute expiry before signing, so the window starts
// at call time rather than commit time.
func (l *Ledger) Approve(
	ctx context.Context,
	delegate types.Address,
	opts *ApproveOptions,
) (*types.Receipt, error) {
	if l.sender == nil {
		return nil, errSenderRequired
	}

	if opts == nil {
		opts = &ApproveOptions{}
	}

	var expiry uint64
	if opts.TTL > 0 {
		expiry = uint64(time.Now().Add(opts.TTL).Unix())
	}

	input, err := contracts.EncodeApproveCredit(delegate, opts.Limit, opts.GasFeeLimit, expiry)
	if err != nil {
		return nil, err
	}

	registry := l.deployment.Registry

	receipt, err := l.provider.SendAndConfirm(ctx, l.sender, &types.Intent{
		Kind:  types.ApproveCredit,
		To:    &registry,
		Input: input,
	}, opts.Send)

	return receipt, l.mapRevert(err)
}

// Revoke withdraws the sender's approval for delegate. Revoking an
// approval that does not exist succeeds as a no-op.
func (l *Ledger) Revoke(
	ctx context.Context,
	delegate types.Address,
	opts *provider.SendOptions,
) (*types.Receipt, error) {
	if l.sender == nil {
		return nil, errSenderRequired
	}

	input, err := contracts.EncodeRevokeCredit(delegate)
	if err != nil {
		return nil, err
	}

	registry := l.deployment.Registry

	receipt, err := l.provider.SendAndConfirm(ctx, l.sender, &types.Intent{
		Kind:  types.RevokeCredit,
		To:    &registry,
		Input: input,
	}, opts)

	return receipt, l.mapRevert(err)
}

// mapRevert folds well-known revert reasons into the package's sentinel
// errors so callers can branch without string matching
func (l *Ledger) mapRevert(err error) error {
	if err == nil {
		return nil
	}

	reason := strings.ToLower(provider.RevertReason(err))

	switch {
	case strings.Contains(reason, "insufficient credit"):
		return fmt.Errorf("%w: %v", ErrInsufficientCredit, err)
	case strings.Contains(reason, "approval limit"):
		return fmt.Errorf("%w: %v", ErrApprovalLimitExceeded, err)
	default:
		return err
	}
}
