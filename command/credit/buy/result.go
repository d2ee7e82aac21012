package buy

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type BuyResult struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	TxHash    string `json:"txHash"`
	GasUsed   uint64 `json:"gasUsed"`
}

func (r *BuyResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[CREDIT BOUGHT]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Recipient|%s", r.Recipient),
		fmt.Sprintf("Amount|%s", r.Amount),
		fmt.Sprintf("Tx hash|%s", r.TxHash),
		fmt.Sprintf("Gas used|%d", r.GasUsed),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
