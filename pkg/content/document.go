package content

import "github.com/cimlabs/cim-ipld/pkg/codec"

// DocumentMetadata carries the searchable, non-identity attributes of a
// document (original_source/examples/content_service_demo.rs's
// DocumentMetadata). None of these fields participate in CID computation:
// identity is the document body alone, so re-tagging or re-titling a
// document never changes its CID.
type DocumentMetadata struct {
	Title    string            `json:"title,omitempty"`
	Author   string            `json:"author,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Language string            `json:"language,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Document is a typed-content document (markdown, plain text, or similarly
// flat formats). Format distinguishes sub-kinds ("markdown", "text") for
// magic-byte verification; it plays no part in partitioning.
type Document struct {
	Body     []byte           `json:"body"`
	Format   string           `json:"format"`
	Metadata DocumentMetadata `json:"metadata"`
}

func (Document) CodecCode() codec.Code { return codec.Documents }
func (Document) ContentType() string   { return "document" }

// ToBytes is the full storage encoding: body plus metadata.
func (d Document) ToBytes() ([]byte, error) {
	return codec.CanonicalJSON(d)
}

// CanonicalPayload is the document body alone — metadata is envelope, not
// identity, so re-tagged or re-titled copies of the same text dedupe to
// the same CID.
func (d Document) CanonicalPayload() ([]byte, error) {
	return append([]byte(nil), d.Body...), nil
}
