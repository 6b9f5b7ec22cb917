// Package chain implements a hash-linked, append-only content chain: a
// sequence of records where each record's CID commits to its content, its
// predecessor's CID, and its position, giving tamper-evidence without any
// external ledger.
package chain

import (
	"fmt"

	cimcid "github.com/cimlabs/cim-ipld/pkg/cid"
	"github.com/cimlabs/cim-ipld/pkg/codec"
	"github.com/cimlabs/cim-ipld/pkg/content"
)

// Record is one link in a chain of typed content T. Its CID commits to the
// content's own canonical payload plus previous_cid and sequence — but not
// timestamp, which is carried for display/ordering only and excluded from
// the identity contract.
type Record[T content.Typed] struct {
	Content     T
	PreviousCID cimcid.CID
	Sequence    uint64
	Timestamp   int64 // unix nanoseconds; caller-supplied so chains stay deterministic in tests
	CID         cimcid.CID
}

// chainPayload is the canonical form a record's CID is derived over. It
// mirrors the record's relational fields but never timestamp.
type chainPayload struct {
	ContentPayload []byte `json:"content_payload"`
	PreviousCID    string `json:"previous_cid"`
	Sequence       uint64 `json:"sequence"`
}

func recordCID[T content.Typed](v T, prev cimcid.CID, sequence uint64) (cimcid.CID, error) {
	payload, err := v.CanonicalPayload()
	if err != nil {
		return cimcid.CID{}, fmt.Errorf("chain: canonical payload: %w", err)
	}
	prevStr := ""
	if !prev.IsNil() {
		prevStr = prev.String()
	}
	canon, err := codec.CanonicalJSON(chainPayload{
		ContentPayload: payload,
		PreviousCID:    prevStr,
		Sequence:       sequence,
	})
	if err != nil {
		return cimcid.CID{}, fmt.Errorf("chain: encode record payload: %w", err)
	}
	return cimcid.New(uint64(v.CodecCode()), content.HashAlgo, canon)
}

// ErrChainValidation reports a broken previous_cid link between two adjacent
// records.
type ErrChainValidation struct {
	Expected cimcid.CID
	Actual   cimcid.CID
}

func (e *ErrChainValidation) Error() string {
	return fmt.Sprintf("chain: validation failed: expected previous_cid %s, got %s", e.Expected, e.Actual)
}

// ErrSequenceValidation reports a non-contiguous sequence number between two
// adjacent records.
type ErrSequenceValidation struct {
	Expected uint64
	Actual   uint64
}

func (e *ErrSequenceValidation) Error() string {
	return fmt.Sprintf("chain: sequence validation failed: expected %d, got %d", e.Expected, e.Actual)
}

// ErrCIDMismatch reports a record whose stored CID no longer matches its
// recomputed CID — the record's own fields were mutated after the fact.
type ErrCIDMismatch struct {
	Expected cimcid.CID
	Actual   cimcid.CID
}

func (e *ErrCIDMismatch) Error() string {
	return fmt.Sprintf("chain: cid mismatch: recomputed %s, stored %s", e.Expected, e.Actual)
}

// ErrInvalidCID is returned by ItemsSince when no record in the chain
// matches the given CID.
var ErrInvalidCID = fmt.Errorf("chain: no record with that cid")

// Chain is an append-only sequence of Records over content type T. The zero
// value is not usable; construct with New.
type Chain[T content.Typed] struct {
	items []*Record[T]
}

// New returns an empty chain.
func New[T content.Typed]() *Chain[T] {
	return &Chain[T]{}
}

// Append computes the new record's previous_cid and sequence from the
// current head, derives its CID, and pushes it. now is the record's
// timestamp (unix nanoseconds); callers pass time.Now().UnixNano() in
// production and a fixed value in tests for reproducibility.
func (c *Chain[T]) Append(v T, now int64) (*Record[T], error) {
	var prev cimcid.CID
	var seq uint64
	if head := c.Head(); head != nil {
		prev = head.CID
		seq = head.Sequence + 1
	}
	cid, err := recordCID(v, prev, seq)
	if err != nil {
		return nil, err
	}
	r := &Record[T]{
		Content:     v,
		PreviousCID: prev,
		Sequence:    seq,
		Timestamp:   now,
		CID:         cid,
	}
	c.items = append(c.items, r)
	return r, nil
}

// Head returns the most recently appended record, or nil for an empty chain.
func (c *Chain[T]) Head() *Record[T] {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[len(c.items)-1]
}

// Items returns the chain's records in append order. The returned slice is
// owned by the caller and safe to range over but must not be mutated in
// place to alter chain state.
func (c *Chain[T]) Items() []*Record[T] {
	out := make([]*Record[T], len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of records in the chain.
func (c *Chain[T]) Len() int { return len(c.items) }

// IsEmpty reports whether the chain has no records.
func (c *Chain[T]) IsEmpty() bool { return len(c.items) == 0 }

// Validate checks every adjacent pair of records for an unbroken
// previous_cid/sequence link and recomputes each record's CID from its
// fields, failing fast on the first inconsistency found.
func (c *Chain[T]) Validate() error {
	for i, r := range c.items {
		if i > 0 {
			prev := c.items[i-1]
			if !r.PreviousCID.Equal(prev.CID) {
				return &ErrChainValidation{Expected: prev.CID, Actual: r.PreviousCID}
			}
			if r.Sequence != prev.Sequence+1 {
				return &ErrSequenceValidation{Expected: prev.Sequence + 1, Actual: r.Sequence}
			}
		}
		recomputed, err := recordCID(r.Content, r.PreviousCID, r.Sequence)
		if err != nil {
			return err
		}
		if !recomputed.Equal(r.CID) {
			return &ErrCIDMismatch{Expected: recomputed, Actual: r.CID}
		}
	}
	return nil
}

// ValidateAgainst checks a standalone record's relational fields and CID
// against a supplied predecessor, for verifying a record outside the
// in-memory Chain it came from (e.g. after retrieval from storage).
func ValidateAgainst[T content.Typed](r *Record[T], prev *Record[T]) error {
	if prev == nil {
		if !r.PreviousCID.IsNil() {
			return &ErrChainValidation{Expected: cimcid.CID{}, Actual: r.PreviousCID}
		}
		if r.Sequence != 0 {
			return &ErrSequenceValidation{Expected: 0, Actual: r.Sequence}
		}
	} else {
		if !r.PreviousCID.Equal(prev.CID) {
			return &ErrChainValidation{Expected: prev.CID, Actual: r.PreviousCID}
		}
		if r.Sequence != prev.Sequence+1 {
			return &ErrSequenceValidation{Expected: prev.Sequence + 1, Actual: r.Sequence}
		}
	}
	recomputed, err := recordCID(r.Content, r.PreviousCID, r.Sequence)
	if err != nil {
		return err
	}
	if !recomputed.Equal(r.CID) {
		return &ErrCIDMismatch{Expected: recomputed, Actual: r.CID}
	}
	return nil
}

// ItemsSince returns the suffix of records strictly after the one whose CID
// equals target, or ErrInvalidCID if no record matches.
func (c *Chain[T]) ItemsSince(target cimcid.CID) ([]*Record[T], error) {
	for i, r := range c.items {
		if r.CID.Equal(target) {
			out := make([]*Record[T], len(c.items)-i-1)
			copy(out, c.items[i+1:])
			return out, nil
		}
	}
	return nil, ErrInvalidCID
}
