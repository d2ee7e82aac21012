package ls

import (
	"bytes"
	"fmt"

	"github.com/recallnet/recall-go/bucket"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/types"
)

type LsResult struct {
	Bucket     string               `json:"bucket"`
	Objects    []*bucket.ObjectInfo `json:"objects"`
	NextCursor string               `json:"nextCursor,omitempty"`
}

func newLsResult(bucketAddr types.Address, page *bucket.QueryResult) *LsResult {
	return &LsResult{
		Bucket:     bucketAddr.String(),
		Objects:    page.Objects,
		NextCursor: page.NextCursor,
	}
}

func (r *LsResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("\n[BUCKET %s]\n", r.Bucket))

	if len(r.Objects) == 0 {
		buffer.WriteString("No objects found\n")

		return buffer.String()
	}

	rows := make([]string, 0, len(r.Objects)+1)
	rows = append(rows, "Key|Size|Content hash")

	for _, obj := range r.Objects {
		rows = append(rows, fmt.Sprintf("%s|%d|%s", obj.Key, obj.Size, obj.BlobHash))
	}

	buffer.WriteString(helper.FormatKV(rows))
	buffer.WriteString("\n")

	if r.NextCursor != "" {
		buffer.WriteString(fmt.Sprintf("\nNext cursor: %s\n", r.NextCursor))
	}

	return buffer.String()
}
