package cid

import "testing"

func TestNewDeterministic(t *testing.T) {
	payload := []byte(`{"a":1}`)
	c1 := MustNew(0x0129, BLAKE3, payload)
	c2 := MustNew(0x0129, BLAKE3, payload)
	if c1.String() != c2.String() {
		t.Fatalf("expected deterministic CID, got %s vs %s", c1, c2)
	}
}

func TestNewDistinctForDifferentPayloads(t *testing.T) {
	c1 := MustNew(0x0129, BLAKE3, []byte("alice"))
	c2 := MustNew(0x0129, BLAKE3, []byte("bob"))
	if c1.Equal(c2) {
		t.Fatalf("expected distinct CIDs for distinct payloads")
	}
}

func TestRoundTripStringParse(t *testing.T) {
	c := MustNew(0x71, SHA256, []byte("hello"))
	parsed, err := Parse(c.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !parsed.Equal(c) {
		t.Fatalf("round trip mismatch: %s != %s", parsed, c)
	}
}

func TestFromBytesRoundTrip(t *testing.T) {
	c := MustNew(0x55, BLAKE3, []byte("raw bytes"))
	b := c.Bytes()
	parsed, err := FromBytes(b)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !parsed.Equal(c) {
		t.Fatalf("byte round trip mismatch")
	}
}

func TestNilCID(t *testing.T) {
	var c CID
	if !c.IsNil() {
		t.Fatalf("zero value CID should be nil")
	}
	if c.String() != "" {
		t.Fatalf("nil CID should render empty string")
	}
}

func TestUnsupportedHashAlgo(t *testing.T) {
	_, err := New(0x55, HashAlgo(0x99), []byte("x"))
	if err == nil {
		t.Fatalf("expected error for unsupported hash algo")
	}
}
