package archive

import (
	"errors"
	"fmt"
)

// ErrBucketRequired is returned when archiving is enabled without a bucket.
var ErrBucketRequired = errors.New("archive: bucket is required when archiving is enabled")

// UploadError describes a failed S3 upload.
type UploadError struct {
	Key    string
	Status int
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	return fmt.Sprintf("archive: upload of %s failed with status %d", e.Key, e.Status)
}
