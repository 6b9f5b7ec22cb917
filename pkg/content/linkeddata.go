package content

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/piprate/json-gold/ld"

	"github.com/cimlabs/cim-ipld/pkg/codec"
)

// LinkedData is a typed-content value whose canonical payload is produced by
// RDF dataset normalization (URDNA2015) instead of sorted-key JSON: a second
// canonical-payload strategy alongside the default dag-json one, for any
// JSON-LD document (contracts, research datasets, social graphs — content
// shaped like linked data rather than a flat record) that needs an
// identity invariant under @context reordering and blank-node relabeling,
// which plain sorted-key JSON cannot provide.
type LinkedData struct {
	Raw      []byte           `json:"raw"`
	Metadata DocumentMetadata `json:"metadata"`
}

func (LinkedData) CodecCode() codec.Code { return codec.DagJSON }
func (LinkedData) ContentType() string   { return "linked-data" }

func (l LinkedData) ToBytes() ([]byte, error) {
	return codec.CanonicalJSON(l)
}

// CanonicalPayload normalizes Raw with URDNA2015 and returns the resulting
// N-Quads bytes. CID construction itself is pkg/content.CID's job,
// uniformly across every typed-content implementation.
func (l LinkedData) CanonicalPayload() ([]byte, error) {
	return normalizeJSONLD(l.Raw)
}

var (
	ldLoader     ld.DocumentLoader
	ldLoaderOnce sync.Once
)

// initLoader installs a caching document loader so remote @context URLs
// resolve deterministically across calls, exactly as internal/seal/seal.go
// does for the pflow.xyz schema.
func initLoader() {
	ldLoaderOnce.Do(func() {
		ldLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(http.DefaultClient))
	})
}

// PreloadContext registers ctx under url in the shared caching loader so
// CanonicalPayload never depends on network access for that context. Call
// this during process init for every @context this module's content will
// reference.
func PreloadContext(url string, ctx map[string]interface{}) {
	initLoader()
	if cl, ok := ldLoader.(*ld.CachingDocumentLoader); ok {
		cl.AddDocument(url, ctx)
	}
}

func normalizeJSONLD(raw []byte) ([]byte, error) {
	initLoader()

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ErrSerialization{Cause: err}
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.Algorithm = "URDNA2015"
	opts.DocumentLoader = ldLoader

	normalized, err := proc.Normalize(doc, opts)
	if err != nil {
		return nil, &ErrInvalidContent{Reason: err.Error()}
	}
	nqStr, ok := normalized.(string)
	if !ok {
		return nil, &ErrInvalidContent{Reason: "unexpected URDNA2015 output type"}
	}
	if nqStr == "" {
		return nil, errors.New("content: empty JSON-LD normalization result")
	}
	return []byte(nqStr), nil
}
