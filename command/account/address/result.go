package address

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type AddressResult struct {
	Address string `json:"address"`
}

func (r *AddressResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[ACCOUNT ADDRESS]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Address|%s", r.Address),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
