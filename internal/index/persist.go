package index

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// restoreEntry reinstates a previously-snapshotted Entry verbatim,
// including its original timestamp and token list, unlike Put which always
// retokenizes fresh body text and stamps the current time.
func (idx *Index) restoreEntry(e Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.forward[e.CID] = e
	for _, tok := range e.Tokens {
		set, ok := idx.byToken[tok]
		if !ok {
			set = make(map[string]struct{})
			idx.byToken[tok] = set
		}
		set[e.CID] = struct{}{}
		idx.wordFreq[tok]++
	}
	for _, tag := range e.Tags {
		set, ok := idx.byTag[tag]
		if !ok {
			set = make(map[string]struct{})
			idx.byTag[tag] = set
		}
		set[e.CID] = struct{}{}
		idx.tagFreq[tag]++
	}
}

// persistedIndex is the plaintext shape serialized to a single opaque blob.
type persistedIndex struct {
	Entries []Entry `json:"entries"`
}

// Snapshot serializes the index's forward entries (the inverted maps are
// rebuilt from them by Restore) to a single blob, ready for AEAD sealing or
// direct storage.
func (idx *Index) Snapshot() ([]byte, error) {
	idx.mu.RLock()
	entries := make([]Entry, 0, len(idx.forward))
	for _, e := range idx.forward {
		entries = append(entries, e)
	}
	idx.mu.RUnlock()

	data, err := json.Marshal(persistedIndex{Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("index: encode snapshot: %w", err)
	}
	return data, nil
}

// Restore builds a new Index from a previously-Snapshotted blob.
func Restore(blob []byte) (*Index, error) {
	var p persistedIndex
	if err := json.Unmarshal(blob, &p); err != nil {
		return nil, fmt.Errorf("index: decode snapshot: %w", err)
	}
	idx := New()
	for _, e := range p.Entries {
		idx.restoreEntry(e)
	}
	return idx, nil
}

// AlgorithmChaCha20Poly1305 is the AEAD algorithm tag stamped on every
// SealedBlob and Wrapper produced by this package, per §4.6's
// ChaCha20-Poly1305/AES-256-GCM algorithm choice.
const AlgorithmChaCha20Poly1305 = "chacha20poly1305"

// SealedBlob is the AEAD wrapper persisted when an encryption key is
// configured: ciphertext, the fresh IV used for
// this write, a non-reversible key_hash for rotation detection, and the
// algorithm tag.
type SealedBlob struct {
	Ciphertext []byte `json:"ciphertext"`
	IV         []byte `json:"iv"`
	KeyHash    string `json:"key_hash"`
	Algorithm  string `json:"algorithm"`
}

// ErrKeyRotationRequired is returned by Open when the wrapper's key_hash
// does not match the supplied key.
var ErrKeyRotationRequired = errors.New("index: key rotation required")

// keyHash fingerprints key non-reversibly for rotation detection.
func keyHash(key []byte) string {
	sum := sha256.Sum256(key)
	return fmt.Sprintf("%x", sum)
}

// Seal encrypts plaintext under key (32 bytes, ChaCha20-Poly1305) with a
// fresh random nonce per call.
func Seal(key, plaintext []byte) (SealedBlob, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return SealedBlob{}, fmt.Errorf("index: init aead: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return SealedBlob{}, fmt.Errorf("index: generate nonce: %w", err)
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)
	return SealedBlob{Ciphertext: ciphertext, IV: nonce, KeyHash: keyHash(key), Algorithm: AlgorithmChaCha20Poly1305}, nil
}

// Open decrypts a SealedBlob with key, returning ErrKeyRotationRequired if
// the blob's key_hash does not match the supplied key.
func Open(key []byte, blob SealedBlob) ([]byte, error) {
	if keyHash(key) != blob.KeyHash {
		return nil, ErrKeyRotationRequired
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("index: init aead: %w", err)
	}
	plaintext, err := aead.Open(nil, blob.IV, blob.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("index: decrypt: %w", err)
	}
	return plaintext, nil
}

// SaveEncrypted seals a Snapshot under key, ready for writing to a
// key-value stream.
func (idx *Index) SaveEncrypted(key []byte) (SealedBlob, error) {
	plain, err := idx.Snapshot()
	if err != nil {
		return SealedBlob{}, err
	}
	return Seal(key, plain)
}

// LoadEncrypted opens blob under key and rebuilds an Index from it.
func LoadEncrypted(key []byte, blob SealedBlob) (*Index, error) {
	plain, err := Open(key, blob)
	if err != nil {
		return nil, err
	}
	return Restore(plain)
}
