package index

import "fmt"

// Wrapper carries a plaintext CID alongside AEAD-sealed metadata, for
// attaching sensitive attributes (PII, internal routing hints) to a
// publicly addressable CID without exposing them in the index or object
// store.
type Wrapper struct {
	CID               string `json:"cid"`
	EncryptedMetadata []byte `json:"encrypted_metadata"`
	IV                []byte `json:"iv"`
	KeyHash           string `json:"key_hash"`
	Algorithm         string `json:"algorithm"`
}

// SealWrapper seals metadata under key, keeping cidStr in plaintext so the
// wrapper remains addressable by CID even though its metadata is opaque.
func SealWrapper(key []byte, cidStr string, metadata []byte) (Wrapper, error) {
	blob, err := Seal(key, metadata)
	if err != nil {
		return Wrapper{}, fmt.Errorf("index: seal wrapper: %w", err)
	}
	return Wrapper{
		CID:               cidStr,
		EncryptedMetadata: blob.Ciphertext,
		IV:                blob.IV,
		KeyHash:           blob.KeyHash,
		Algorithm:         blob.Algorithm,
	}, nil
}

// OpenWrapper decrypts w's metadata under key.
func OpenWrapper(key []byte, w Wrapper) ([]byte, error) {
	return Open(key, SealedBlob{Ciphertext: w.EncryptedMetadata, IV: w.IV, KeyHash: w.KeyHash, Algorithm: w.Algorithm})
}
