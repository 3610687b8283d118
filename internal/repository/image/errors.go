package image

import "errors"

var (
	ErrInvalidName       = errors.New("invalid output name")
	ErrStorageError      = errors.New("storage error")
	ErrStorageValidation = errors.New("storage validation failed")
	ErrBucketNotFound    = errors.New("bucket not found")
)
