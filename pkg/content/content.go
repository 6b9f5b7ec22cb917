// Package content implements the typed-content contract: a polymorphic
// notion of "any domain value that exposes a static codec code, a static
// content-type tag, a serialization to bytes, and a canonical payload".
package content

import (
	"fmt"

	cimcid "github.com/cimlabs/cim-ipld/pkg/cid"
	"github.com/cimlabs/cim-ipld/pkg/codec"
)

// Typed is the capability bundle every stored domain value must implement.
// CanonicalPayload is the byte sequence that drives CID computation; by
// default it equals ToBytes's output, but implementations override it to
// exclude envelope metadata (message IDs, timestamps, trace headers) so
// that two otherwise-identical values share a CID.
type Typed interface {
	CodecCode() codec.Code
	ContentType() string
	ToBytes() ([]byte, error)
	CanonicalPayload() ([]byte, error)
}

// HashAlgo is the default multihash algorithm for CID derivation
// (BLAKE3-256). Call sites needing SHA-256 interop use CIDWith.
const HashAlgo = cimcid.BLAKE3

// CID computes v's content identifier: make_cid(codec_code(v),
// multihash(BLAKE3, digest(canonical_payload(v)))).
func CID(v Typed) (cimcid.CID, error) {
	return CIDWith(v, HashAlgo)
}

// CIDWith computes v's CID using an explicit hash algorithm, for callers
// that need SHA-256 interop with implementations that default to it.
func CIDWith(v Typed, algo cimcid.HashAlgo) (cimcid.CID, error) {
	payload, err := v.CanonicalPayload()
	if err != nil {
		return cimcid.CID{}, fmt.Errorf("content: canonical payload: %w", err)
	}
	c, err := cimcid.New(uint64(v.CodecCode()), algo, payload)
	if err != nil {
		return cimcid.CID{}, fmt.Errorf("content: derive cid: %w", err)
	}
	return c, nil
}

// ErrSerialization wraps codec encode failures.
type ErrSerialization struct{ Cause error }

func (e *ErrSerialization) Error() string { return fmt.Sprintf("content: serialization: %v", e.Cause) }
func (e *ErrSerialization) Unwrap() error { return e.Cause }

// ErrInvalidContent indicates a canonical payload was refused.
type ErrInvalidContent struct{ Reason string }

func (e *ErrInvalidContent) Error() string { return "content: invalid content: " + e.Reason }
