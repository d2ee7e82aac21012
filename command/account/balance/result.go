package balance

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
)

type BalanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

func (r *BalanceResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[ACCOUNT BALANCE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Address|%s", r.Address),
		fmt.Sprintf("Balance|%s", r.Balance),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
