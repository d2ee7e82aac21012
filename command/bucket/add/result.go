package add

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type AddResult struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	TxHash    string `json:"txHash"`
	GasUsed   uint64 `json:"gasUsed"`
	Available bool   `json:"available"`
}

func (r *AddResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[OBJECT ADDED]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Bucket|%s", r.Bucket),
		fmt.Sprintf("Key|%s", r.Key),
		fmt.Sprintf("Tx hash|%s", r.TxHash),
		fmt.Sprintf("Gas used|%d", r.GasUsed),
		fmt.Sprintf("Available|%t", r.Available),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
