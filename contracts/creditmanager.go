package contracts

import (
	"math/big"

	web3 "github.com/umbracle/go-web3"

	"github.com/recallnet/recall-go/types"
)

// Credit manager gateway methods. buyCredit carries the purchase amount
// as the transaction value, so it takes no amount argument.
var (
	methodCreditBalance = mustNewMethod(
		"function creditBalance(address owner) returns (uint256 free, uint256 committed)")

	methodBuyCredit = mustNewMethod(
		"function buyCredit(address recipient)")

	methodApproveCredit = mustNewMethod(
		"function approveCredit(address delegate, uint256 creditLimit, bool capped, " +
			"uint256 gasFeeLimit, bool gasCapped, uint64 expiry)")

	methodRevokeCredit = mustNewMethod(
		"function revokeCredit(address delegate)")

	methodApprovalsFrom = mustNewMethod(
		"function approvalsFrom(address owner) returns (address[] delegates, uint256[] creditLimits, " +
			"bool[] capped, uint256[] gasFeeLimits, bool[] gasCapped, uint64[] expiries, uint256[] used)")

	methodApprovalsTo = mustNewMethod(
		"function approvalsTo(address delegate) returns (address[] owners, uint256[] creditLimits, " +
			"bool[] capped, uint256[] gasFeeLimits, bool[] gasCapped, uint64[] expiries, uint256[] used)")
)

// CreditBalance is an account's credit split by availability
type CreditBalance struct {
	Free      *big.Int
	Committed *big.Int
}

// Approval is one credit delegation. Peer is the delegate when listing
// approvals from an owner, and the owner when listing approvals to a
// delegate. A nil CreditLimit or GasFeeLimit means uncapped.
type Approval struct {
	Peer        types.Address
	CreditLimit *big.Int
	GasFeeLimit *big.Int
	Expiry      uint64
	Used        *big.Int
}

func EncodeCreditBalance(owner types.Address) ([]byte, error) {
	return encodeCall(methodCreditBalance, map[string]interface{}{
		"owner": web3.Address(owner),
	})
}

func DecodeCreditBalance(ret []byte) (*CreditBalance, error) {
	out, err := decodeReturn(methodCreditBalance, ret)
	if err != nil {
		return nil, err
	}

	free, err := asBig(out["free"])
	if err != nil {
		return nil, err
	}

	committed, err := asBig(out["committed"])
	if err != nil {
		return nil, err
	}

	return &CreditBalance{
		Free:      free,
		Committed: committed,
	}, nil
}

func EncodeBuyCredit(recipient types.Address) ([]byte, error) {
	return encodeCall(methodBuyCredit, map[string]interface{}{
		"recipient": web3.Address(recipient),
	})
}

func EncodeApproveCredit(
	delegate types.Address,
	creditLimit *big.Int,
	gasFeeLimit *big.Int,
	expiry uint64,
) ([]byte, error) {
	capped := creditLimit != nil
	if !capped {
		creditLimit = new(big.Int)
	}

	gasCapped := gasFeeLimit != nil
	if !gasCapped {
		gasFeeLimit = new(big.Int)
	}

	return encodeCall(methodApproveCredit, map[string]interface{}{
		"delegate":    web3.Address(delegate),
		"creditLimit": creditLimit,
		"capped":      capped,
		"gasFeeLimit": gasFeeLimit,
		"gasCapped":   gasCapped,
		"expiry":      expiry,
	})
}

func EncodeRevokeCredit(delegate types.Address) ([]byte, error) {
	return encodeCall(methodRevokeCredit, map[string]interface{}{
		"delegate": web3.Address(delegate),
	})
}

func EncodeApprovalsFrom(owner types.Address) ([]byte, error) {
	return encodeCall(methodApprovalsFrom, map[string]interface{}{
		"owner": web3.Address(owner),
	})
}

func DecodeApprovalsFrom(ret []byte) ([]*Approval, error) {
	out, err := decodeReturn(methodApprovalsFrom, ret)
	if err != nil {
		return nil, err
	}

	return decodeApprovals(out, "delegates")
}

func EncodeApprovalsTo(delegate types.Address) ([]byte, error) {
	return encodeCall(methodApprovalsTo, map[string]interface{}{
		"delegate": web3.Address(delegate),
	})
}

func DecodeApprovalsTo(ret []byte) ([]*Approval, error) {
	out, err := decodeReturn(methodApprovalsTo, ret)
	if err != nil {
		return nil, err
	}

	return decodeApprovals(out, "owners")
}

func decodeApprovals(out map[string]interface{}, peerField string) ([]*Approval, error) {
	peers, err := asAddressSlice(out[peerField])
	if err != nil {
		return nil, err
	}

	creditLimits, err := asBigSlice(out["creditLimits"])
	if err != nil {
		return nil, err
	}

	capped, err := asBoolSlice(out["capped"])
	if err != nil {
		return nil, err
	}

	gasFeeLimits, err := asBigSlice(out["gasFeeLimits"])
	if err != nil {
		return nil, err
	}

	gasCapped, err := asBoolSlice(out["gasCapped"])
	if err != nil {
		return nil, err
	}

	expiries, err := asUint64Slice(out["expiries"])
	if err != nil {
		return nil, err
	}

	used, err := asBigSlice(out["used"])
	if err != nil {
		return nil, err
	}

	n := len(peers)
	if len(creditLimits) != n || len(capped) != n || len(gasFeeLimits) != n ||
		len(gasCapped) != n || len(expiries) != n || len(used) != n {
		return nil, ErrBadReturnData
	}

	approvals := make([]*Approval, n)

	for i := 0; i < n; i++ {
		a := &Approval{
			Peer:   peers[i],
			Expiry: expiries[i],
			Used:   used[i],
		}

		if capped[i] {
			a.CreditLimit = creditLimits[i]
		}

		if gasCapped[i] {
			a.GasFeeLimit = gasFeeLimits[i]
		}

		approvals[i] = a
	}

	return approvals, nil
}
