package sequence

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type SequenceResult struct {
	Address  string `json:"address"`
	Sequence uint64 `json:"sequence"`
}

func (r *SequenceResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[ACCOUNT SEQUENCE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Address|%s", r.Address),
		fmt.Sprintf("Sequence|%d", r.Sequence),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
