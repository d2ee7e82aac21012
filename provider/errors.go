package provider

import (
	"errors"
	"fmt"

	"github.com/recallnet/recall-go/types"
)

var (
	// ErrGasEstimation means the network could not produce a gas value
	// for the intent; the intent was not submitted
	ErrGasEstimation = errors.New("gas estimation failed")

	// ErrSubmissionFailed means the transport failed while submitting.
	// The chain may or may not have seen the transaction; the caller
	// owns the retry decision and should Reconcile first.
	ErrSubmissionFailed = errors.New("transaction submission failed")

	// ErrTransactionFailed means the transaction executed and reverted
	ErrTransactionFailed = errors.New("transaction failed on chain")

	// ErrAwaitTimeout means the local wait elapsed with the transaction
	// still pending. This is NOT a failure: the transaction may yet
	// commit. Check by hash before assuming anything.
	ErrAwaitTimeout = errors.New("timed out awaiting transaction result")

	// ErrInvalidAmount means a value transfer was requested without a
	// positive amount
	ErrInvalidAmount = errors.New("transfer amount must be positive")
)

// TimeoutError carries the hash of the still-pending transaction so the
// caller can keep checking on it
type TimeoutError struct {
	Hash types.Hash
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAwaitTimeout, e.Hash)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrAwaitTimeout
}

// TxFailedError carries the receipt of a reverted transaction
type TxFailedError struct {
	Receipt *types.Receipt
}

func (e *TxFailedError) Error() string {
	if e.Receipt != nil && e.Receipt.Revert != "" {
		return fmt.Sprintf("%s: %s (tx %s)", ErrTransactionFailed, e.Receipt.Revert, e.Receipt.TxHash)
	}

	return fmt.Sprintf("%s (tx %s)", ErrTransactionFailed, e.Receipt.TxHash)
}

func (e *TxFailedError) Is(target error) bool {
	return target == ErrTransactionFailed
}

// RevertReason extracts the revert reason from a pipeline error, empty if
// the error is not an on-chain failure
func RevertReason(err error) string {
	var fe *TxFailedError
	if errors.As(err, &fe) && fe.Receipt != nil {
		return fe.Receipt.Revert
	}

	return ""
}
