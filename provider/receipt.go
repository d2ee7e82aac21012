package provider

import (
	"context"

	"github.com/recallnet/recall-go/helper/hex"
	"github.com/recallnet/recall-go/types"
)

// rpcReceipt is the wire form of a transaction receipt
type rpcReceipt struct {
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"`
	GasUsed         string `json:"gasUsed"`
	BlockNumber     string `json:"blockNumber"`
	ReturnData      string `json:"returnData,omitempty"`
	RevertReason    string `json:"revertReason,omitempty"`
}

func (r *rpcReceipt) decode() (*types.Receipt, error) {
	txHash, err := types.ParseHash(r.TransactionHash)
	if err != nil {
		return nil, err
	}

	gasUsed, err := hex.DecodeUint64(r.GasUsed)
	if err != nil {
		return nil, err
	}

	blockNumber, err := hex.DecodeUint64(r.BlockNumber)
	if err != nil {
		return nil, err
	}

	status := types.TxFailed
	if st, err := hex.DecodeUint64(r.Status); err == nil && st == 1 {
		status = types.TxCommitted
	}

	receipt := &types.Receipt{
		TxHash:      txHash,
		Status:      status,
		GasUsed:     gasUsed,
		BlockNumber: blockNumber,
		Revert:      r.RevertReason,
	}

	if r.ReturnData != "" {
		ret, err := hex.DecodeHex(r.ReturnData)
		if err != nil {
			return nil, err
		}

		receipt.Return = ret
	}

	return receipt, nil
}

// ReceiptByHash fetches the receipt for a transaction. A nil receipt with
// no error means the transaction is still pending (or unknown).
func (p *Provider) ReceiptByHash(ctx context.Context, hash types.Hash) (*types.Receipt, error) {
	if cached, ok := p.receipts.Get(hash); ok {
		//nolint:forcetypeassert
		return cached.(*types.Receipt), nil
	}

	var out *rpcReceipt
	if err := p.client.Call(ctx, "eth_getTransactionReceipt", &out, hash); err != nil {
		return nil, err
	}

	if out == nil {
		return nil, nil
	}

	receipt, err := out.decode()
	if err != nil {
		return nil, err
	}

	if receipt.Status.IsTerminal() {
		p.receipts.Add(hash, receipt)
	}

	return receipt, nil
}
