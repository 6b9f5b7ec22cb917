package service

import (
	"encoding/json"
	"testing"

	"github.com/xeipuuv/gojsonschema"

	cimcid "github.com/cimlabs/cim-ipld/pkg/cid"
	"github.com/cimlabs/cim-ipld/pkg/content"

	"github.com/cimlabs/cim-ipld/internal/auth"
	"github.com/cimlabs/cim-ipld/internal/index"
	"github.com/cimlabs/cim-ipld/internal/objectstore"
)

func decodeDocument(raw []byte) (content.Typed, error) {
	var doc content.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func newTestService() *ContentService {
	return New(objectstore.NewMemoryBucket(), Config{AutoIndex: true}, nil)
}

func TestStoreDocumentDedupes(t *testing.T) {
	svc := newTestService()
	body := []byte("a plain document body")

	first, err := svc.StoreDocument(body, content.DocumentMetadata{Tags: []string{"note"}}, "text", "note.txt")
	if err != nil {
		t.Fatalf("first store: %v", err)
	}
	if first.Deduplicated {
		t.Fatalf("expected first store not to be deduplicated")
	}

	second, err := svc.StoreDocument(body, content.DocumentMetadata{Tags: []string{"different-tag"}}, "text", "note.txt")
	if err != nil {
		t.Fatalf("second store: %v", err)
	}
	if !second.Deduplicated {
		t.Fatalf("expected second store to report deduplicated")
	}
	if !first.CID.Equal(second.CID) {
		t.Fatalf("expected identical cid across both stores")
	}
}

func TestStoreDocumentRejectsOversizedContent(t *testing.T) {
	svc := New(objectstore.NewMemoryBucket(), Config{MaxContentSize: 4}, nil)
	_, err := svc.StoreDocument([]byte("too long"), content.DocumentMetadata{}, "text", "x.txt")
	if err == nil {
		t.Fatalf("expected oversized content to be rejected")
	}
	var invalid *ErrInvalidContent
	if !asErrInvalidContent(err, &invalid) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
}

func asErrInvalidContent(err error, target **ErrInvalidContent) bool {
	e, ok := err.(*ErrInvalidContent)
	if !ok {
		return false
	}
	*target = e
	return true
}

func TestStoreDocumentValidatesMagicBytes(t *testing.T) {
	svc := New(objectstore.NewMemoryBucket(), Config{ValidateOnStore: true}, nil)
	_, err := svc.StoreDocument([]byte("not a pdf"), content.DocumentMetadata{}, "pdf", "doc.pdf")
	if err == nil {
		t.Fatalf("expected magic-byte validation to reject a non-PDF payload claiming format pdf")
	}
}

func TestRetrieveRoundTrip(t *testing.T) {
	svc := newTestService()
	body := []byte("retrieve me")

	res, err := svc.StoreDocument(body, content.DocumentMetadata{}, "text", "doc.txt")
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := svc.Retrieve("cim-documents", res.CID, decodeDocument)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if string(got.(content.Document).Body) != "retrieve me" {
		t.Fatalf("unexpected retrieved body")
	}
}

func TestSearchFindsIndexedContent(t *testing.T) {
	svc := newTestService()
	if _, err := svc.StoreDocument([]byte("quarterly invoice totals"), content.DocumentMetadata{Tags: []string{"finance"}}, "text", "a.txt"); err != nil {
		t.Fatalf("store: %v", err)
	}

	results := svc.Search(index.Query{Text: "invoice"})
	if len(results) == 0 {
		t.Fatalf("expected at least one search hit for 'invoice'")
	}
}

func TestBatchStoreCollectsSuccessesAndFailures(t *testing.T) {
	svc := newTestService()
	items := []BatchItem{
		{Kind: "document", Body: []byte("doc one"), Filename: "one.txt", Format: "text"},
		{Kind: "document", Body: []byte("doc two"), Filename: "two.txt", Format: "text"},
		{Kind: "unknown-kind", Body: []byte("bad")},
	}

	result := svc.BatchStore(items, 2)
	if len(result.Successful) != 2 {
		t.Fatalf("expected 2 successes, got %d", len(result.Successful))
	}
	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failed))
	}
	if result.Failed[0].Index != 2 {
		t.Fatalf("expected the failure to be recorded at index 2, got %d", result.Failed[0].Index)
	}
}

func TestStoreDocumentEnforcesJSONSchema(t *testing.T) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(
		`{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`,
	))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	svc := New(objectstore.NewMemoryBucket(), Config{ValidateOnStore: true, DocumentSchema: schema}, nil)

	if _, err := svc.StoreDocument([]byte(`{"age": 5}`), content.DocumentMetadata{}, "json", "a.json"); err == nil {
		t.Fatalf("expected schema validation to reject a document missing required field")
	}

	res, err := svc.StoreDocument([]byte(`{"name": "alice"}`), content.DocumentMetadata{}, "json", "a.json")
	if err != nil {
		t.Fatalf("expected a conforming document to store cleanly: %v", err)
	}
	if res.ContentType != "document" {
		t.Fatalf("unexpected content type %q", res.ContentType)
	}
}

func TestPreStoreHookAttachesAuthorMetadata(t *testing.T) {
	svc := newTestService()
	secret := []byte("test-secret")
	token, err := auth.Issue(auth.Identity{Subject: "user-42"}, secret)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	svc.AddPreStoreHook(NewBearerAuthorHook(secret, func() string { return token }))

	var captured string
	svc.AddPostStoreHook(func(c cimcid.CID, contentType string) {
		if e, ok := svc.idx.Get(c.String()); ok {
			captured = e.Metadata["author"]
		}
	})

	if _, err := svc.StoreDocument([]byte("authored body"), content.DocumentMetadata{}, "text", "a.txt"); err != nil {
		t.Fatalf("store: %v", err)
	}
	if captured != "user-42" {
		t.Fatalf("expected author metadata %q, got %q", "user-42", captured)
	}
}
