package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// dagCBOREncMode/DecMode are configured once for canonical, deterministic
// CBOR: the "Canonical CBOR" rules of RFC 7049 §3.9, whose map keys are
// sorted length-first (shorter encoded keys before longer ones, then
// bytewise). This differs from the plain lexicographic key order
// pkg/canonical applies to JSON.
var (
	dagCBOREncMode, _ = cbor.CanonicalEncOptions().EncMode()
	dagCBORDecMode, _ = cbor.DecOptions{}.DecMode()
)

// dagCBORCodec implements the DAG-CBOR codec (0x71): canonical CBOR with
// deterministic map ordering, required for compact wire form.
type dagCBORCodec struct{}

func (dagCBORCodec) Code() Code     { return DagCBOR }
func (dagCBORCodec) Name() string   { return "dag-cbor" }
func (dagCBORCodec) IsMarker() bool { return false }

func (dagCBORCodec) Encode(v interface{}) ([]byte, error) {
	out, err := dagCBOREncMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("dag-cbor: encode: %w", err)
	}
	return out, nil
}

func (dagCBORCodec) Decode(data []byte, v interface{}) error {
	if err := dagCBORDecMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("dag-cbor: decode: %w", err)
	}
	return nil
}
