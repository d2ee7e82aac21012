package create

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type CreateResult struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	TxHash  string `json:"txHash"`
	GasUsed uint64 `json:"gasUsed"`
}

func (r *CreateResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[BUCKET CREATED]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Address|%s", r.Address),
		fmt.Sprintf("Owner|%s", r.Owner),
		fmt.Sprintf("Tx hash|%s", r.TxHash),
		fmt.Sprintf("Gas used|%d", r.GasUsed),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
