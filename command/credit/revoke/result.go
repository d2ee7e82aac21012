package revoke

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type RevokeResult struct {
	Owner    string `json:"owner"`
	Delegate string `json:"delegate"`
	TxHash   string `json:"txHash"`
	GasUsed  uint64 `json:"gasUsed"`
}

func (r *RevokeResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[CREDIT REVOKED]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Owner|%s", r.Owner),
		fmt.Sprintf("Delegate|%s", r.Delegate),
		fmt.Sprintf("Tx hash|%s", r.TxHash),
		fmt.Sprintf("Gas used|%d", r.GasUsed),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
