package types

import (
	"bytes"
	"testing"
)

func TestStringToBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arr []byte
		exp []byte
	}{
		{StringToBytes("0x00ffff00ff0000"), []byte{0x00, 0xff, 0xff, 0x00, 0xff, 0x00, 0x00}},
		{StringToBytes("0x00000000000000"), []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{StringToBytes("0xff"), []byte{0xff}},
		{[]byte{}, []byte{}},
		{StringToBytes("0xfff"), []byte{0x0f, 0xff}},
	}

	for i, test := range tests {
		if !bytes.Equal(test.arr, test.exp) {
			t.Errorf("test %d, got %x exp %x", i, test.arr, test.exp)
		}
	}
}

func TestCloneStringMap(t *testing.T) {
	t.Parallel()

	if CloneStringMap(nil) != nil {
		t.Error("nil map should stay nil")
	}

	src := map[string]string{"a": "1"}
	cloned := CloneStringMap(src)

	cloned["a"] = "2"

	if src["a"] != "1" {
		t.Error("clone should not share storage with the source")
	}
}
