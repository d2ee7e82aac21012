package stat

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/credit"
	"github.com/recallnet/recall-go/types"
)

type StatResult struct {
	Address   string                            `json:"address"`
	Free      string                            `json:"free"`
	Committed string                            `json:"committed"`
	From      map[types.Address]*credit.Approval `json:"approvalsFrom,omitempty"`
	To        map[types.Address]*credit.Approval `json:"approvalsTo,omitempty"`
}

func newStatResult(addr types.Address, balance *credit.Balance) *StatResult {
	return &StatResult{
		Address:   addr.String(),
		Free:      balance.Free.String(),
		Committed: balance.Committed.String(),
		From:      balance.ApprovalsFrom,
		To:        balance.ApprovalsTo,
	}
}

func (r *StatResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[CREDIT BALANCE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Address|%s", r.Address),
		fmt.Sprintf("Free|%s", r.Free),
		fmt.Sprintf("Committed|%s", r.Committed),
	}))
	buffer.WriteString("\n")

	writeApprovals(&buffer, "APPROVALS GRANTED", r.From)
	writeApprovals(&buffer, "APPROVALS RECEIVED", r.To)

	return buffer.String()
}

func writeApprovals(buffer *bytes.Buffer, title string, approvals map[types.Address]*credit.Approval) {
	if len(approvals) == 0 {
		return
	}

	buffer.WriteString(fmt.Sprintf("\n[%s]\n", title))

	rows := make([]string, 0, len(approvals)+1)
	rows = append(rows, "Account|Limit|Used|Expiry")

	for addr, approval := range approvals {
		limit := "uncapped"
		if approval.CreditLimit != nil {
			limit = approval.CreditLimit.String()
		}

		expiry := "never"
		if approval.Expiry != 0 {
			expiry = fmt.Sprintf("%d", approval.Expiry)
		}

		rows = append(rows, fmt.Sprintf("%s|%s|%s|%s", addr, limit, approval.Used, expiry))
	}

	buffer.WriteString(helper.FormatKV(rows))
	buffer.WriteString("\n")
}
