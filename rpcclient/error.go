package rpcclient

import (
	"encoding/json"
	"fmt"
)

// RPCError is a rejection produced by the endpoint itself, as opposed to a
// transport failure on the way there
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// RevertData returns the hex-encoded revert payload some endpoints attach
// to execution errors, empty when absent
func (e *RPCError) RevertData() string {
	if len(e.Data) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(e.Data, &s); err != nil {
		return ""
	}

	return s
}
