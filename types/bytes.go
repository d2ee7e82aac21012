package types

import (
	"encoding/hex"
	"strings"
)

func StringToBytes(str string) []byte {
	str = strings.TrimPrefix(str, "0x")
	if len(str)%2 == 1 {
		str = "0" + str
	}

	b, _ := hex.DecodeString(str)

	return b
}

// CloneStringMap returns a copy of the provided string mapping, nil maps stay nil
func CloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}

	cloned := make(map[string]string, len(m))
	for k, v := range m {
		cloned[k] = v
	}

	return cloned
}
