// Package cid computes and renders content identifiers for this module.
//
// A CID is a versioned, self-describing content hash: (cid_version,
// codec_code, multihash). It wraps github.com/ipfs/go-cid and
// github.com/multiformats/go-multihash, generalized across the full codec
// range this module supports rather than one hard-coded codec.
package cid

import (
	"crypto/sha256"
	"fmt"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	mh "github.com/multiformats/go-multihash"
	"lukechampine.com/blake3"
)

// HashAlgo identifies the multihash algorithm used to produce a CID's digest.
// Only SHA256 and BLAKE3 are supported; New rejects any other value with
// ErrUnsupportedHashAlgo.
type HashAlgo uint64

const (
	// SHA256 is multihash code 0x12, a 32-byte digest.
	SHA256 HashAlgo = 0x12
	// BLAKE3 is multihash code 0x1e, a 32-byte digest, and the default hash.
	BLAKE3 HashAlgo = 0x1e

	// DigestLength is the digest length used by both supported algorithms.
	DigestLength = 32
)

// ErrUnsupportedHashAlgo is returned when a HashAlgo outside {SHA256, BLAKE3}
// is requested.
type ErrUnsupportedHashAlgo HashAlgo

func (e ErrUnsupportedHashAlgo) Error() string {
	return fmt.Sprintf("cid: unsupported multihash algorithm 0x%x", uint64(e))
}

// digest computes the raw hash digest for algo over data.
func digest(algo HashAlgo, data []byte) ([]byte, error) {
	switch algo {
	case SHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case BLAKE3:
		sum := blake3.Sum256(data)
		return sum[:], nil
	default:
		return nil, ErrUnsupportedHashAlgo(algo)
	}
}

// CID is this module's content identifier: a CIDv1 carrying a codec code and
// a multihash. Two CIDs are value-equal iff their byte encodings are equal;
// since gocid.Cid is itself a comparable string-backed value, Go's built-in
// == works, but Equal is provided for clarity at call sites.
type CID struct {
	inner gocid.Cid
}

// The zero CID is nil; IsNil reports whether a CID was ever computed
// (used as the "⊥" previous_cid of the first record in a chain).
func (c CID) IsNil() bool { return !c.inner.Defined() }

// Equal reports whether two CIDs have identical byte encodings.
func (c CID) Equal(o CID) bool { return c.inner.Equals(o.inner) }

// Codec returns the codec code embedded in the CID.
func (c CID) Codec() uint64 { return c.inner.Type() }

// String renders the CID as CIDv1 multibase base32-lowercase, per §6.
func (c CID) String() string {
	if c.IsNil() {
		return ""
	}
	s, err := c.inner.StringOfBase(multibase.Base32)
	if err != nil {
		// StringOfBase only fails for unsupported bases; base32 is always supported.
		panic(fmt.Sprintf("cid: unexpected multibase error: %v", err))
	}
	return s
}

// Bytes returns the little-endian varint-field byte encoding: version || codec || multihash.
func (c CID) Bytes() []byte { return c.inner.Bytes() }

// Parse decodes the textual form of a CID back into a CID value. Use
// FromBytes for the binary form.
func Parse(s string) (CID, error) {
	c, err := gocid.Decode(s)
	if err != nil {
		return CID{}, fmt.Errorf("cid: parse %q: %w", s, err)
	}
	return CID{inner: c}, nil
}

// FromBytes decodes the byte encoding of a CID.
func FromBytes(b []byte) (CID, error) {
	c, err := gocid.Cast(b)
	if err != nil {
		return CID{}, fmt.Errorf("cid: decode bytes: %w", err)
	}
	return CID{inner: c}, nil
}

// New computes a CID over payload using codecCode and hash algorithm algo.
// This is the single place multihash construction happens; callers never
// build a gocid.Cid directly.
func New(codecCode uint64, algo HashAlgo, payload []byte) (CID, error) {
	d, err := digest(algo, payload)
	if err != nil {
		return CID{}, err
	}
	encoded, err := mh.Encode(d, uint64(algo))
	if err != nil {
		return CID{}, fmt.Errorf("cid: multihash encode: %w", err)
	}
	return CID{inner: gocid.NewCidV1(codecCode, encoded)}, nil
}

// MustNew is New, panicking on error. Intended for package-level constants
// and tests only.
func MustNew(codecCode uint64, algo HashAlgo, payload []byte) CID {
	c, err := New(codecCode, algo, payload)
	if err != nil {
		panic(err)
	}
	return c
}
