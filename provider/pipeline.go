package provider

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/recallnet/recall-go/account"
	"github.com/recallnet/recall-go/helper/hex"
	"github.com/recallnet/recall-go/helper/telemetry"
	"github.com/recallnet/recall-go/rpcclient"
	"github.com/recallnet/recall-go/types"
)

const (
	// estimation headroom, in percent: starving an intent of gas costs a
	// failed transaction, a slight overestimate only costs the refundable
	// difference
	gasHeadroomPct = 20

	defaultAwaitTimeout = 2 * time.Minute
)

// SendOptions tune one pipeline run. The zero value is valid.
type SendOptions struct {
	// Timeout bounds the local wait for confirmation; it does not bound
	// or cancel the on-chain transaction itself
	Timeout time.Duration

	// NoReconcile skips the journal pre-check. Set it when deliberately
	// submitting an intent equivalent to a recently confirmed one.
	NoReconcile bool
}

func (o *SendOptions) timeout() time.Duration {
	if o == nil || o.Timeout <= 0 {
		return defaultAwaitTimeout
	}

	return o.Timeout
}

// EstimateGas asks the network what the intent would cost to execute and
// pads the answer. Only called for intents that did not fix a gas limit.
func (p *Provider) EstimateGas(ctx context.Context, from types.Address, intent *types.Intent) (uint64, error) {
	msg := &callMsg{
		From: &from,
		To:   intent.To,
		Data: hex.EncodeToHex(intent.Input),
	}

	if intent.Value != nil && intent.Value.Sign() > 0 {
		msg.Value = hex.EncodeBig(intent.Value)
	}

	var out string
	if err := p.client.Call(ctx, "eth_estimateGas", &out, msg); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrGasEstimation, err)
	}

	estimate, err := hex.DecodeUint64(out)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrGasEstimation, err)
	}

	return estimate + estimate*gasHeadroomPct/100, nil
}

// Submit hands the signed envelope to the network exactly once and returns
// the pending transaction hash. Transport failures are wrapped in
// ErrSubmissionFailed and NEVER retried here: a retry could execute twice.
func (p *Provider) Submit(ctx context.Context, tx *types.Transaction) (types.Hash, error) {
	if !tx.IsSigned() {
		return types.ZeroHash, errors.New("provider: transaction is not signed")
	}

	raw := hex.EncodeToHex(tx.MarshalRLP())

	var out string
	if err := p.client.CallOnce(ctx, "eth_sendRawTransaction", &out, raw); err != nil {
		if rpcclient.IsTransportError(err) {
			return types.ZeroHash, fmt.Errorf("%w: %s", ErrSubmissionFailed, err)
		}

		// the endpoint rejected the transaction before admission; it is
		// definitively not on chain
		return types.ZeroHash, err
	}

	hash, err := types.ParseHash(out)
	if err != nil {
		return types.ZeroHash, fmt.Errorf("provider: malformed submission response: %w", err)
	}

	p.metrics.SubmittedInc()

	return hash, nil
}

// AwaitResult waits until the transaction reaches a terminal state or the
// timeout elapses. Cancelling the context abandons the local wait only;
// the submitted transaction stays on chain either way.
func (p *Provider) AwaitResult(ctx context.Context, hash types.Hash, timeout time.Duration) (*types.Receipt, error) {
	if timeout <= 0 {
		timeout = defaultAwaitTimeout
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var heads <-chan struct{}

	if p.heads != nil {
		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		if ch, err := p.heads.Subscribe(subCtx); err == nil {
			heads = ch
		} else {
			p.logger.Debug("head subscription unavailable, polling only", "err", err)
		}
	}

	backoff := rpcclient.NewBackoff(p.pollInterval, 8*p.pollInterval, 0.2)

	for attempt := 0; ; attempt++ {
		receipt, err := p.ReceiptByHash(ctx, hash)
		if err != nil {
			return nil, err
		}

		if receipt != nil && receipt.Status.IsTerminal() {
			return receipt, nil
		}

		poll := time.NewTimer(backoff.ForAttempt(attempt))

		select {
		case <-ctx.Done():
			poll.Stop()

			return nil, ctx.Err()
		case <-deadline.C:
			poll.Stop()
			p.metrics.TimeoutInc()

			return nil, &TimeoutError{Hash: hash}
		case _, ok := <-heads:
			poll.Stop()

			if !ok {
				// stream dropped, fall back to polling alone
				heads = nil
			}
		case <-poll.C:
		}
	}
}

// Reconcile looks up whether an equivalent intent was already submitted
// and, if so, what became of it. A true result with a nil receipt means a
// prior submission exists and is still pending.
func (p *Provider) Reconcile(ctx context.Context, fingerprint types.Hash) (*types.Receipt, bool, error) {
	hash, ok, err := p.journal.Lookup(fingerprint)
	if err != nil || !ok {
		return nil, false, err
	}

	receipt, err := p.ReceiptByHash(ctx, hash)
	if err != nil {
		return nil, true, err
	}

	return receipt, true, nil
}

// SendAndConfirm runs the full mutation pipeline: reconcile, price, bind
// the next sequence number, sign, journal, submit, await. The sender's
// submit lock is held throughout, so one unconfirmed transaction is in
// flight per account at a time.
func (p *Provider) SendAndConfirm(
	ctx context.Context,
	sender *account.Sender,
	intent *types.Intent,
	opts *SendOptions,
) (*types.Receipt, error) {
	span := p.tracer.StartWithContext(ctx, "pipeline")
	defer span.End()

	span.SetAttribute("intent", intent.Kind.String())

	sender.Acquire()
	defer sender.Release()

	fingerprint := intent.Fingerprint(p.deployment.ChainID, sender.Address())

	if opts == nil || !opts.NoReconcile {
		receipt, found, err := p.Reconcile(ctx, fingerprint)
		if err != nil {
			return nil, err
		}

		if found {
			if receipt == nil {
				// a prior equivalent submission is still pending;
				// follow it instead of double submitting
				if hash, ok, _ := p.journal.Lookup(fingerprint); ok {
					span.AddEvent("following_prior_submission", map[string]interface{}{
						"hash": hash.String(),
					})

					return p.finishAwait(ctx, fingerprint, hash, opts.timeout())
				}
			} else {
				// the prior attempt concluded; surface its outcome once
				// and clear the entry so a deliberate repeat can proceed
				_ = p.journal.Forget(fingerprint)

				return p.finishReceipt(receipt)
			}
		}
	}

	tx, seq, err := p.buildAndSign(ctx, sender, intent)
	if err != nil {
		return nil, err
	}

	// journal before the wire call: if the process dies mid-submit, the
	// hash is still recoverable for reconciliation
	if err := p.journal.Record(fingerprint, tx.Hash()); err != nil {
		return nil, fmt.Errorf("provider: journal write: %w", err)
	}

	hash, err := p.Submit(ctx, tx)
	if err != nil {
		if !errors.Is(err, ErrSubmissionFailed) {
			// definite rejection, the sequence number was not consumed
			sender.Tracker().Unwind(seq)
			_ = p.journal.Forget(fingerprint)

			if account.IsSequenceStale(err) {
				if _, rerr := sender.Tracker().Reset(ctx, p); rerr != nil {
					p.logger.Warn("sequence reset failed", "err", rerr)
				}

				return nil, fmt.Errorf("%w: %s", account.ErrSequenceStale, err)
			}
		}

		span.RecordError(err)
		span.SetStatus(telemetry.Error, "submit")

		return nil, err
	}

	p.logger.Info("transaction submitted",
		"intent", intent.Kind.String(), "hash", hash, "sequence", seq)

	return p.finishAwait(ctx, fingerprint, hash, opts.timeout())
}

// Transfer sends native tokens to the recipient through the full pipeline
func (p *Provider) Transfer(
	ctx context.Context,
	sender *account.Sender,
	to types.Address,
	amount *big.Int,
	opts *SendOptions,
) (*types.Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	return p.SendAndConfirm(ctx, sender, &types.Intent{
		Kind:  types.Transfer,
		To:    &to,
		Value: amount,
	}, opts)
}

func (p *Provider) buildAndSign(
	ctx context.Context,
	sender *account.Sender,
	intent *types.Intent,
) (*types.Transaction, uint64, error) {
	gasPrice := intent.GasPrice
	if gasPrice == nil {
		price, err := p.GasPrice(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s", ErrGasEstimation, err)
		}

		gasPrice = price
	}

	gasLimit := intent.GasLimit
	if gasLimit == 0 {
		estimate, err := p.EstimateGas(ctx, sender.Address(), intent)
		if err != nil {
			return nil, 0, err
		}

		gasLimit = estimate
	}

	tracker := sender.Tracker()

	if _, synced := tracker.Current(); !synced {
		if _, err := tracker.Sync(ctx, p); err != nil {
			return nil, 0, err
		}
	}

	seq, err := tracker.Next()
	if err != nil {
		return nil, 0, err
	}

	tx := &types.Transaction{
		Nonce:    seq,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       intent.To,
		Value:    intent.Value,
		Input:    intent.Input,
	}

	if tx.Value == nil {
		tx.Value = new(big.Int)
	}

	if _, err := sender.SignTx(tx, p.deployment.ChainID); err != nil {
		tracker.Unwind(seq)

		return nil, 0, err
	}

	return tx, seq, nil
}

func (p *Provider) finishAwait(
	ctx context.Context,
	fingerprint, hash types.Hash,
	timeout time.Duration,
) (*types.Receipt, error) {
	receipt, err := p.AwaitResult(ctx, hash, timeout)
	if err != nil {
		// the journal entry survives a timeout or cancellation so the
		// caller can Reconcile later
		return nil, err
	}

	_ = p.journal.Forget(fingerprint)

	return p.finishReceipt(receipt)
}

func (p *Provider) finishReceipt(receipt *types.Receipt) (*types.Receipt, error) {
	if receipt.Failed() {
		p.metrics.FailedInc()

		return receipt, &TxFailedError{Receipt: receipt}
	}

	p.metrics.CommittedInc()

	return receipt, nil
}
