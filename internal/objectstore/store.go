package objectstore

import (
	"bytes"
	"fmt"

	cimcid "github.com/cimlabs/cim-ipld/pkg/cid"
	"github.com/cimlabs/cim-ipld/pkg/content"
)

// envelopeMagic prefixes a compressed blob so Get can tell a compressed
// object from a raw one without a side channel. Get decides by this prefix
// alone; ObjectInfo.Compressed is recorded for List callers but is not
// consulted on read.
var envelopeMagic = []byte("CIMZ")

// Config controls Store's compression behavior.
type Config struct {
	EnableCompression    bool
	CompressionThreshold int // bytes; 0 uses DefaultCompressionThreshold
}

// DefaultCompressionThreshold matches the reference implementation's
// default of compressing anything over 4 KiB.
const DefaultCompressionThreshold = 4096

// Store computes CIDs, selects buckets, and re-verifies integrity around a
// raw Bucket backend.
type Store struct {
	bucket Bucket
	cfg    Config
}

// NewStore wraps bucket with the given compression configuration.
func NewStore(bucket Bucket, cfg Config) *Store {
	if cfg.CompressionThreshold <= 0 {
		cfg.CompressionThreshold = DefaultCompressionThreshold
	}
	return &Store{bucket: bucket, cfg: cfg}
}

func (s *Store) threshold() int { return s.cfg.CompressionThreshold }

// Put computes v's CID, serializes it, optionally compresses it, and
// writes it under bucketName keyed by the CID string. Idempotent: a
// pre-existing key with matching bytes is treated as success
// (deduplication); mismatching bytes under an existing key is ErrCidMismatch.
func (s *Store) Put(bucketName string, v content.Typed) (cimcid.CID, error) {
	c, err := content.CID(v)
	if err != nil {
		return cimcid.CID{}, fmt.Errorf("objectstore: compute cid: %w", err)
	}
	raw, err := v.ToBytes()
	if err != nil {
		return cimcid.CID{}, fmt.Errorf("objectstore: serialize: %w", err)
	}

	if err := s.bucket.CreateBucket(bucketName); err != nil {
		return cimcid.CID{}, fmt.Errorf("objectstore: create bucket: %w", err)
	}

	stored := raw
	compressed := false
	if s.cfg.EnableCompression && len(raw) > s.threshold() {
		packed, err := compress(raw)
		if err != nil {
			return cimcid.CID{}, err
		}
		stored = append(append([]byte(nil), envelopeMagic...), packed...)
		compressed = true
	}

	info := ObjectInfo{CID: c.String(), Size: len(raw), Compressed: compressed}
	if err := s.bucket.Put(bucketName, c.String(), stored, info); err != nil {
		return cimcid.CID{}, err
	}
	return c, nil
}

// Get reads the object stored under want's string form in bucketName,
// decompresses it if needed, decodes it with decode, confirms the decoded
// value's codec matches want's, and recomputes its CID — returning
// ErrContentTypeMismatch or ErrCidMismatch if either check fails.
func (s *Store) Get(bucketName string, want cimcid.CID, decode func([]byte) (content.Typed, error)) (content.Typed, error) {
	stored, _, err := s.bucket.Get(bucketName, want.String())
	if err != nil {
		return nil, err
	}

	raw := stored
	if bytes.HasPrefix(stored, envelopeMagic) {
		raw, err = decompress(stored[len(envelopeMagic):])
		if err != nil {
			return nil, err
		}
	}

	v, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("objectstore: decode: %w", err)
	}
	if uint64(v.CodecCode()) != want.Codec() {
		return nil, &ErrContentTypeMismatch{Want: want.Codec(), Got: uint64(v.CodecCode())}
	}
	recomputed, err := content.CID(v)
	if err != nil {
		return nil, fmt.Errorf("objectstore: recompute cid: %w", err)
	}
	if !recomputed.Equal(want) {
		return nil, &ErrCidMismatch{Key: want.String()}
	}
	return v, nil
}

// Exists reports whether want is already stored in bucketName.
func (s *Store) Exists(bucketName string, want cimcid.CID) (bool, error) {
	return s.bucket.Exists(bucketName, want.String())
}

// List returns the objects stored in bucketName matching opts.
func (s *Store) List(bucketName string, opts PullOptions) ([]ObjectInfo, error) {
	return s.bucket.List(bucketName, opts)
}

// Delete removes want from bucketName.
func (s *Store) Delete(bucketName string, want cimcid.CID) error {
	return s.bucket.Delete(bucketName, want.String())
}
