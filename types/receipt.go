package types

// TxStatus is the lifecycle state of a submitted transaction. A transaction
// is created Pending and transitions exactly once to Committed or Failed.
type TxStatus int

const (
	TxPending TxStatus = iota
	TxCommitted
	TxFailed
)

func (s TxStatus) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxCommitted:
		return "committed"
	case TxFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s TxStatus) IsTerminal() bool {
	return s == TxCommitted || s == TxFailed
}

// Receipt is the terminal outcome of a transaction as reported by the
// network. Return carries the opaque payload; the bucket and credit layers
// type it per intent kind.
type Receipt struct {
	TxHash      Hash     `json:"transactionHash"`
	Status      TxStatus `json:"status"`
	GasUsed     uint64   `json:"gasUsed"`
	BlockNumber uint64   `json:"blockNumber"`
	Return      []byte   `json:"returnData,omitempty"`

	// Revert holds the decoded revert reason for failed transactions,
	// empty when the network did not surface one
	Revert string `json:"revertReason,omitempty"`
}

func (r *Receipt) Committed() bool {
	return r != nil && r.Status == TxCommitted
}

func (r *Receipt) Failed() bool {
	return r != nil && r.Status == TxFailed
}
