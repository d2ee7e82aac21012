package bucket

import "errors"

var (
	// ErrKeyExists is returned by Add when overwrite was not requested
	// and the key already holds an object
	ErrKeyExists = errors.New("object key already exists")

	// ErrKeyNotFound is returned by Delete when the key holds no object
	// at submission-read time
	ErrKeyNotFound = errors.New("object key not found")

	// ErrNotFound is returned by Get when the key holds no object
	ErrNotFound = errors.New("object not found")

	// ErrNotYetAvailable is returned by Get when the object is committed
	// on chain but its content has not materialized in the object API
	// yet. Callers should retry, or use WaitAvailable.
	ErrNotYetAvailable = errors.New("object not yet available")

	// ErrBucketNotFound is returned when the bucket address does not
	// resolve to a created bucket
	ErrBucketNotFound = errors.New("bucket not found")

	ErrInvalidRange = errors.New("invalid byte range")
)
