package index

import (
	"errors"
	"testing"
)

func TestPutAndSearchByText(t *testing.T) {
	idx := New()
	idx.Put("cid1", "document", nil, "The quick brown fox", []string{"animal"})
	idx.Put("cid2", "document", nil, "A slow green turtle", []string{"animal", "reptile"})

	results := idx.Search(Query{Text: "quick fox"})
	if len(results) == 0 || results[0].CID != "cid1" {
		t.Fatalf("expected cid1 to rank first for 'quick fox', got %+v", results)
	}
}

func TestSearchScoringIsAdditive(t *testing.T) {
	idx := New()
	idx.Put("cid1", "document", nil, "alpha beta", []string{"tag1"})
	idx.Put("cid2", "document", nil, "alpha", []string{"tag1", "tag2"})

	results := idx.Search(Query{Text: "alpha beta", Tags: []string{"tag1", "tag2"}})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// cid2: 1 token match (alpha) + 2 tag matches = 1 + 2*2 = 5
	// cid1: 2 token matches (alpha, beta) + 1 tag match = 2 + 2 = 4
	if results[0].CID != "cid2" {
		t.Fatalf("expected cid2 to win on tag-weighted score, got %+v", results)
	}
}

func TestSearchTiesBreakByCIDOrder(t *testing.T) {
	idx := New()
	idx.Put("bbb", "document", nil, "match", nil)
	idx.Put("aaa", "document", nil, "match", nil)

	results := idx.Search(Query{Text: "match"})
	if len(results) != 2 || results[0].CID != "aaa" {
		t.Fatalf("expected tie broken by lexicographic cid order, got %+v", results)
	}
}

func TestSearchFiltersByContentType(t *testing.T) {
	idx := New()
	idx.Put("cid1", "document", nil, "shared text", nil)
	idx.Put("cid2", "image", nil, "shared text", nil)

	results := idx.Search(Query{Text: "shared text", ContentType: "image"})
	if len(results) != 1 || results[0].CID != "cid2" {
		t.Fatalf("expected only the image result, got %+v", results)
	}
}

func TestListByType(t *testing.T) {
	idx := New()
	idx.Put("cid1", "document", nil, "x", nil)
	idx.Put("cid2", "image", nil, "y", nil)
	idx.Put("cid3", "document", nil, "z", nil)

	docs := idx.ListByType("document")
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %v", docs)
	}
}

func TestRemoveClearsPostings(t *testing.T) {
	idx := New()
	idx.Put("cid1", "document", nil, "unique-term", []string{"tag-x"})
	idx.Remove("cid1")

	if _, ok := idx.Get("cid1"); ok {
		t.Fatalf("expected forward entry removed")
	}
	if results := idx.Search(Query{Text: "unique-term"}); len(results) != 0 {
		t.Fatalf("expected no results after removal, got %+v", results)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	idx := New()
	idx.Put("cid1", "document", map[string]string{"title": "x"}, "hello world", []string{"tag1"})

	blob, err := idx.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	restored, err := Restore(blob)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Stats().TotalDocuments != 1 {
		t.Fatalf("expected 1 restored document")
	}
	results := restored.Search(Query{Text: "hello"})
	if len(results) != 1 || results[0].CID != "cid1" {
		t.Fatalf("expected restored index to be searchable, got %+v", results)
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	plaintext := []byte("sensitive metadata")

	blob, err := Seal(key, plaintext)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	opened, err := Open(key, blob)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if string(opened) != string(plaintext) {
		t.Fatalf("expected round-tripped plaintext, got %q", opened)
	}
}

func TestOpenDetectsKeyRotation(t *testing.T) {
	key1 := make([]byte, 32)
	key2 := make([]byte, 32)
	key2[0] = 1

	blob, err := Seal(key1, []byte("data"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	_, err = Open(key2, blob)
	if !errors.Is(err, ErrKeyRotationRequired) {
		t.Fatalf("expected ErrKeyRotationRequired, got %v", err)
	}
}

// TestEncryptedWrapperRoundTrip checks that the plaintext CID survives
// alongside sealed metadata, and that the metadata recovers intact.
func TestEncryptedWrapperRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	cidStr := "bafy-example-cid"
	metadata := []byte(`{"owner":"alice"}`)

	w, err := SealWrapper(key, cidStr, metadata)
	if err != nil {
		t.Fatalf("seal wrapper: %v", err)
	}
	if w.CID != cidStr {
		t.Fatalf("expected plaintext cid preserved, got %q", w.CID)
	}

	opened, err := OpenWrapper(key, w)
	if err != nil {
		t.Fatalf("open wrapper: %v", err)
	}
	if string(opened) != string(metadata) {
		t.Fatalf("expected round-tripped metadata, got %q", opened)
	}
}
