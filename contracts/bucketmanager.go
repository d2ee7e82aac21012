package contracts

import (
	web3 "github.com/umbracle/go-web3"

	"github.com/recallnet/recall-go/types"
)

// Bucket manager gateway methods
var (
	methodCreateBucket = mustNewMethod(
		"function createBucket(address owner, string[] metaKeys, string[] metaValues) returns (address bucket)")

	methodAddObject = mustNewMethod(
		"function addObject(address bucket, string key, bytes32 blobHash, uint64 size, bool overwrite, " +
			"string[] metaKeys, string[] metaValues)")

	methodDeleteObject = mustNewMethod(
		"function deleteObject(address bucket, string key)")

	methodGetObject = mustNewMethod(
		"function getObject(address bucket, string key) returns (bytes32 blobHash, uint64 size, bool exists)")

	methodGetObjectMetadata = mustNewMethod(
		"function getObjectMetadata(address bucket, string key) returns (string[] metaKeys, string[] metaValues)")

	methodQueryObjects = mustNewMethod(
		"function queryObjects(address bucket, string prefix, string cursor, uint64 max) returns " +
			"(string[] keys, bytes32[] blobHashes, uint64[] sizes, string nextCursor)")

	methodGetBucket = mustNewMethod(
		"function getBucket(address bucket) returns (address owner, string[] metaKeys, string[] metaValues)")
)

// ObjectHead is the on-chain record of one stored object
type ObjectHead struct {
	BlobHash types.Hash
	Size     uint64
	Exists   bool
}

// ObjectListing is one page of a prefix query, in contract order
type ObjectListing struct {
	Keys       []string
	BlobHashes []types.Hash
	Sizes      []uint64
	NextCursor string
}

func EncodeCreateBucket(owner types.Address, metadata map[string]string) ([]byte, error) {
	keys, values := metadataToPairs(metadata)

	return encodeCall(methodCreateBucket, map[string]interface{}{
		"owner":      web3.Address(owner),
		"metaKeys":   keys,
		"metaValues": values,
	})
}

func DecodeCreateBucket(ret []byte) (types.Address, error) {
	out, err := decodeReturn(methodCreateBucket, ret)
	if err != nil {
		return types.ZeroAddress, err
	}

	return asAddress(out["bucket"])
}

func EncodeAddObject(
	bucket types.Address,
	key string,
	blobHash types.Hash,
	size uint64,
	overwrite bool,
	metadata map[string]string,
) ([]byte, error) {
	metaKeys, metaValues := metadataToPairs(metadata)

	return encodeCall(methodAddObject, map[string]interface{}{
		"bucket":     web3.Address(bucket),
		"key":        key,
		"blobHash":   [32]byte(blobHash),
		"size":       size,
		"overwrite":  overwrite,
		"metaKeys":   metaKeys,
		"metaValues": metaValues,
	})
}

func EncodeDeleteObject(bucket types.Address, key string) ([]byte, error) {
	return encodeCall(methodDeleteObject, map[string]interface{}{
		"bucket": web3.Address(bucket),
		"key":    key,
	})
}

func EncodeGetObject(bucket types.Address, key string) ([]byte, error) {
	return encodeCall(methodGetObject, map[string]interface{}{
		"bucket": web3.Address(bucket),
		"key":    key,
	})
}

func DecodeGetObject(ret []byte) (*ObjectHead, error) {
	out, err := decodeReturn(methodGetObject, ret)
	if err != nil {
		return nil, err
	}

	blobHash, err := asHash(out["blobHash"])
	if err != nil {
		return nil, err
	}

	size, err := asUint64(out["size"])
	if err != nil {
		return nil, err
	}

	exists, err := asBool(out["exists"])
	if err != nil {
		return nil, err
	}

	return &ObjectHead{
		BlobHash: blobHash,
		Size:     size,
		Exists:   exists,
	}, nil
}

func EncodeGetObjectMetadata(bucket types.Address, key string) ([]byte, error) {
	return encodeCall(methodGetObjectMetadata, map[string]interface{}{
		"bucket": web3.Address(bucket),
		"key":    key,
	})
}

func DecodeGetObjectMetadata(ret []byte) (map[string]string, error) {
	out, err := decodeReturn(methodGetObjectMetadata, ret)
	if err != nil {
		return nil, err
	}

	keys, err := asStringSlice(out["metaKeys"])
	if err != nil {
		return nil, err
	}

	values, err := asStringSlice(out["metaValues"])
	if err != nil {
		return nil, err
	}

	return pairsToMetadata(keys, values)
}

func EncodeQueryObjects(bucket types.Address, prefix, cursor string, max uint64) ([]byte, error) {
	return encodeCall(methodQueryObjects, map[string]interface{}{
		"bucket": web3.Address(bucket),
		"prefix": prefix,
		"cursor": cursor,
		"max":    max,
	})
}

func DecodeQueryObjects(ret []byte) (*ObjectListing, error) {
	out, err := decodeReturn(methodQueryObjects, ret)
	if err != nil {
		return nil, err
	}

	keys, err := asStringSlice(out["keys"])
	if err != nil {
		return nil, err
	}

	hashes, err := asHashSlice(out["blobHashes"])
	if err != nil {
		return nil, err
	}

	sizes, err := asUint64Slice(out["sizes"])
	if err != nil {
		return nil, err
	}

	nextCursor, err := asString(out["nextCursor"])
	if err != nil {
		return nil, err
	}

	if len(keys) != len(hashes) || len(keys) != len(sizes) {
		return nil, ErrBadReturnData
	}

	return &ObjectListing{
		Keys:       keys,
		BlobHashes: hashes,
		Sizes:      sizes,
		NextCursor: nextCursor,
	}, nil
}

func EncodeGetBucket(bucket types.Address) ([]byte, error) {
	return encodeCall(methodGetBucket, map[string]interface{}{
		"bucket": web3.Address(bucket),
	})
}

func DecodeGetBucket(ret []byte) (types.Address, map[string]string, error) {
	out, err := decodeReturn(methodGetBucket, ret)
	if err != nil {
		return types.ZeroAddress, nil, err
	}

	owner, err := asAddress(out["owner"])
	if err != nil {
		return types.ZeroAddress, nil, err
	}

	keys, err := asStringSlice(out["metaKeys"])
	if err != nil {
		return types.ZeroAddress, nil, err
	}

	values, err := asStringSlice(out["metaValues"])
	if err != nil {
		return types.ZeroAddress, nil, err
	}

	metadata, err := pairsToMetadata(keys, values)
	if err != nil {
		return types.ZeroAddress, nil, err
	}

	return owner, metadata, nil
}
