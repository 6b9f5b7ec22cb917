// Package objectstore implements a partitioned, compressed, CID-keyed
// object store: a Bucket abstraction holding compressed blobs keyed by
// CID string, and a Store that computes CIDs, selects buckets via a
// partition strategy, and re-verifies integrity on read.
package objectstore

import (
	"errors"
	"fmt"
	"time"
)

// ObjectInfo describes one stored object, as returned by Bucket.List.
type ObjectInfo struct {
	CID        string
	Size       int
	Compressed bool
	CreatedAt  time.Time
}

// PullOptions filters a List call.
type PullOptions struct {
	Limit  int
	Offset int
	Since  time.Time
	Prefix string
}

// Bucket is the external storage contract a backend must satisfy: create,
// put, get, exists, list, delete over byte blobs keyed by CID string. This
// is deliberately narrow — compression, CID derivation, and bucket
// selection live in Store, one layer up, so a Bucket implementation only
// ever deals in opaque bytes.
type Bucket interface {
	CreateBucket(name string) error
	Put(bucket, key string, data []byte, info ObjectInfo) error
	Get(bucket, key string) ([]byte, ObjectInfo, error)
	Exists(bucket, key string) (bool, error)
	List(bucket string, opts PullOptions) ([]ObjectInfo, error)
	Delete(bucket, key string) error
}

// ErrNotFound is returned by Get/Delete when key does not exist in bucket.
var ErrNotFound = errors.New("objectstore: not found")

// ErrBucketNotFound is returned when an operation targets a bucket that was
// never created.
var ErrBucketNotFound = errors.New("objectstore: bucket not found")

// ErrCidMismatch is returned when a put's existing stored bytes differ from
// the incoming bytes under the same key, or when
// a get's recomputed CID differs from the requested one (step 4 of "Get").
type ErrCidMismatch struct {
	Key string
}

func (e *ErrCidMismatch) Error() string {
	return fmt.Sprintf("objectstore: cid mismatch for key %s", e.Key)
}

// ErrContentTypeMismatch is returned by Store.Get when the decoded value's
// declared codec does not match the one requested.
type ErrContentTypeMismatch struct {
	Want uint64
	Got  uint64
}

func (e *ErrContentTypeMismatch) Error() string {
	return fmt.Sprintf("objectstore: content type mismatch: want codec 0x%x, got 0x%x", e.Want, e.Got)
}
