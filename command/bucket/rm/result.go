package rm

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type RmResult struct {
	Bucket  string `json:"bucket"`
	Key     string `json:"key"`
	TxHash  string `json:"txHash"`
	GasUsed uint64 `json:"gasUsed"`
}

func (r *RmResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[OBJECT REMOVED]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Bucket|%s", r.Bucket),
		fmt.Sprintf("Key|%s", r.Key),
		fmt.Sprintf("Tx hash|%s", r.TxHash),
		fmt.Sprintf("Gas used|%d", r.GasUsed),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
