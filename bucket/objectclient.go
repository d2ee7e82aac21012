package bucket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"

	"github.com/recallnet/recall-go/types"
)

const (
	// uploadChunkSize bounds the copy buffer so large objects stream
	// through in fixed-size chunks instead of being buffered whole
	uploadChunkSize = 1 << 20

	objectAPITimeout = 5 * time.Minute
)

// Range selects an inclusive, 0-indexed byte range of an object
type Range struct {
	Start uint64
	End   uint64
}

func (r *Range) header() string {
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

// UploadResult is what the object API reports back for a stored blob
type UploadResult struct {
	Hash types.Hash
	Size uint64
}

// ObjectClient talks to a deployment's object API, which serves the
// off-chain half of every object: content bytes keyed by bucket and key.
// On-chain commitment is handled elsewhere; this client only moves bytes.
type ObjectClient struct {
	logger  hclog.Logger
	baseURL string
	client  *http.Client
}

func NewObjectClient(logger hclog.Logger, baseURL string) *ObjectClient {
	return &ObjectClient{
		logger:  logger.Named("objectapi"),
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: objectAPITimeout,
		},
	}
}

type uploadResponse struct {
	Hash string `json:"hash"`
	Size uint64 `json:"size"`
}

// Upload streams src to the object API and returns the content hash and
// size the API computed. When compress is set the content part is zstd
// encoded on the wire; the API stores and hashes the decoded bytes, so
// the result is the same either way.
func (c *ObjectClient) Upload(
	ctx context.Context,
	bucket types.Address,
	key string,
	src io.Reader,
	compress bool,
) (*UploadResult, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(form, bucket, key, src, compress))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/objects", pr)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("X-Request-Id", uuid.New().String())

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("object upload: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return nil, apiError("upload", res)
	}

	var body uploadResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("object upload: decode response: %w", err)
	}

	hash, err := types.ParseHash(body.Hash)
	if err != nil {
		return nil, fmt.Errorf("object upload: bad content hash %q: %w", body.Hash, err)
	}

	c.logger.Debug("uploaded object", "bucket", bucket, "key", key, "size", body.Size)

	return &UploadResult{
		Hash: hash,
		Size: body.Size,
	}, nil
}

func writeUploadForm(
	form *multipart.Writer,
	bucket types.Address,
	key string,
	src io.Reader,
	compress bool,
) error {
	if err := form.WriteField("bucket", bucket.String()); err != nil {
		return err
	}

	if err := form.WriteField("key", key); err != nil {
		return err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="content"; filename="content"`)
	header.Set("Content-Type", "application/octet-stream")

	if compress {
		header.Set("Content-Encoding", "zstd")
	}

	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}

	dst := part

	var enc *zstd.Encoder

	if compress {
		enc, err = zstd.NewWriter(part)
		if err != nil {
			return err
		}

		dst = enc
	}

	buf := make([]byte, uploadChunkSize)
	if _, err := io.CopyBuffer(dst, src, buf); err != nil {
		return err
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			return err
		}
	}

	return form.Close()
}

// Download streams the object's bytes to dst, optionally restricted to an
// inclusive byte range. Returns the number of bytes written. A missing
// object surfaces as ErrNotFound; callers who know the key is committed
// on chain should treat that as not-yet-resolved instead.
func (c *ObjectClient) Download(
	ctx context.Context,
	bucket types.Address,
	key string,
	dst io.Writer,
	byteRange *Range,
) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(bucket, key), nil)
	if err != nil {
		return 0, err
	}

	req.Header.Set("X-Request-Id", uuid.New().String())

	if byteRange != nil {
		req.Header.Set("Range", byteRange.header())
	}

	res, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("object download: %w", err)
	}

	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		// a server that ignored the Range header would stream the whole
		// object to a caller who asked for a slice
		if byteRange != nil {
			return 0, fmt.Errorf("object download: server ignored requested range %q", byteRange.header())
		}
	case http.StatusPartialContent:
	case http.StatusNotFound:
		return 0, ErrNotFound
	case http.StatusRequestedRangeNotSatisfiable:
		return 0, ErrInvalidRange
	default:
		return 0, apiError("download", res)
	}

	buf := make([]byte, uploadChunkSize)

	n, err := io.CopyBuffer(dst, res.Body, buf)
	if err != nil {
		return n, fmt.Errorf("object download: %w", err)
	}

	return n, nil
}

// Stat reports whether the object's content has materialized in the API
func (c *ObjectClient) Stat(ctx context.Context, bucket types.Address, key string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.objectURL(bucket, key), nil)
	if err != nil {
		return false, err
	}

	req.Header.Set("X-Request-Id", uuid.New().String())

	res, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("object stat: %w", err)
	}

	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, apiError("stat", res)
	}
}

// objectURL escapes each path segment of the key separately so keys may
// contain '/' as a hierarchy convention
func (c *ObjectClient) objectURL(bucket types.Address, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	return c.baseURL + "/v1/objects/" + bucket.String() + "/" + strings.Join(segments, "/")
}

func apiError(op string, res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = res.Status
	}

	return fmt.Errorf("object %s: %s (status %d)", op, msg, res.StatusCode)
}
