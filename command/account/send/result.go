package send

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type SendResult struct {
	From      string `json:"from"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	TxHash    string `json:"txHash"`
	GasUsed   uint64 `json:"gasUsed"`
}

func (r *SendResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[TOKENS SENT]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("From|%s", r.From),
		fmt.Sprintf("Recipient|%s", r.Recipient),
		fmt.Sprintf("Amount|%s", r.Amount),
		fmt.Sprintf("Tx hash|%s", r.TxHash),
		fmt.Sprintf("Gas used|%d", r.GasUsed),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
