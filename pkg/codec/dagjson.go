package codec

import (
	"encoding/json"
	"fmt"

	"github.com/cimlabs/cim-ipld/pkg/canonical"
)

// dagJSONCodec implements the DAG-JSON codec (0x0129): UTF-8 JSON with
// stable key ordering, built on canonical.MarshalJSON.
//
// Encode always produces the compact, sorted-key form suitable as CID
// input. Pretty returns an indented variant that must never be used for
// CID computation, since whitespace is not canonical.
type dagJSONCodec struct{}

func (dagJSONCodec) Code() Code     { return DagJSON }
func (dagJSONCodec) Name() string   { return "dag-json" }
func (dagJSONCodec) IsMarker() bool { return false }

func (dagJSONCodec) Encode(v interface{}) ([]byte, error) {
	return canonicalJSON(v)
}

func (dagJSONCodec) Decode(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("dag-json: decode: %w", err)
	}
	return nil
}

// Pretty renders v as indented JSON. MUST NOT be used as CID input.
func (dagJSONCodec) Pretty(v interface{}) ([]byte, error) {
	compact, err := canonicalJSON(v)
	if err != nil {
		return nil, err
	}
	var buf interface{}
	if err := json.Unmarshal(compact, &buf); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("dag-json: pretty encode: %w", err)
	}
	return out, nil
}

// CanonicalJSON marshals v into the canonical, sorted-key JSON encoding used
// as dag-json's CID input. Exposed for typed-content implementations in
// pkg/content that need canonical payload serialization without depending
// on the registry.
func CanonicalJSON(v interface{}) ([]byte, error) {
	return canonicalJSON(v)
}

// PrettyJSON renders v as indented JSON. MUST NOT be used as CID input.
func PrettyJSON(v interface{}) ([]byte, error) {
	return dagJSONCodec{}.Pretty(v)
}

// canonicalJSON marshals v to JSON then re-marshals through canonical.MarshalJSON
// so the result has deterministic, sorted map keys regardless of v's static type.
func canonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("dag-json: encode: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("dag-json: encode: %w", err)
	}
	canon, err := canonical.MarshalJSON(generic)
	if err != nil {
		return nil, fmt.Errorf("dag-json: encode: %w", err)
	}
	return canon, nil
}
