package provenance

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cimlabs/cim-ipld/internal/index"
)

// KeyPair is a generated secp256k1 identity: hex-encoded private key and
// its derived address. The teacher's cmd/keygen referenced a
// crypto.GenerateKey/LoadPrivateKeyFromHex/CreateKeystore/PrivateKeyToHex
// API that never shipped in internal/ethsig — these functions fill that
// gap, grounded directly on go-ethereum's crypto package rather than its
// accounts/keystore package (whose V3 JSON implementation wasn't present
// in the retrieved corpus either; see DESIGN.md).
type KeyPair struct {
	PrivateKeyHex string
	Address       string
}

// GenerateKeyPair creates a fresh secp256k1 keypair.
func GenerateKeyPair() (KeyPair, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return KeyPair{}, fmt.Errorf("provenance: generate key: %w", err)
	}
	return KeyPair{
		PrivateKeyHex: hex.EncodeToString(crypto.FromECDSA(priv)),
		Address:       crypto.PubkeyToAddress(priv.PublicKey).Hex(),
	}, nil
}

// AddressFromPrivateKeyHex derives the address for a hex-encoded private key.
func AddressFromPrivateKeyHex(privKeyHex string) (string, error) {
	priv, err := crypto.HexToECDSA(trimHexPrefix(privKeyHex))
	if err != nil {
		return "", fmt.Errorf("provenance: invalid private key: %w", err)
	}
	return crypto.PubkeyToAddress(priv.PublicKey).Hex(), nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// SealedKey is a private key at rest, AEAD-sealed under a separate
// encryption key (index.Seal's ChaCha20-Poly1305 primitive, reused here
// rather than depending on go-ethereum's keystore package) plus the
// plaintext address for lookup without decryption.
type SealedKey struct {
	Address string           `json:"address"`
	Sealed  index.SealedBlob `json:"sealed"`
}

// SealKeyPair seals kp's private key under encKey, keeping the address in
// plaintext so callers can locate a signing key by address before
// decrypting it.
func SealKeyPair(encKey []byte, kp KeyPair) (SealedKey, error) {
	blob, err := index.Seal(encKey, []byte(kp.PrivateKeyHex))
	if err != nil {
		return SealedKey{}, fmt.Errorf("provenance: seal private key: %w", err)
	}
	return SealedKey{Address: kp.Address, Sealed: blob}, nil
}

// OpenSealedKey decrypts sk's private key under encKey, returning
// index.ErrKeyRotationRequired if encKey no longer matches the key sk was
// sealed under.
func OpenSealedKey(encKey []byte, sk SealedKey) (string, error) {
	plain, err := index.Open(encKey, sk.Sealed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// ValidAddress reports whether s is a well-formed hex Ethereum-style
// address, used to validate SignerAddress fields before use.
func ValidAddress(s string) bool {
	return common.IsHexAddress(s)
}
