// Package provenance attaches secp256k1 author signatures to typed
// content, signing any content.Typed value's canonical payload rather
// than being scoped to one wire format.
package provenance

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cimlabs/cim-ipld/pkg/content"
)

// ErrInvalidSignatureLength mirrors internal/ethsig's signature-length check.
var ErrInvalidSignatureLength = fmt.Errorf("provenance: signature must be 65 bytes (r||s||v)")

// Signature is a provenance attestation over a piece of typed content: who
// signed it, and the 65-byte r||s||v signature over its canonical payload.
type Signature struct {
	SignerAddress string `json:"signer_address"`
	Signature     string `json:"signature"` // 0x-prefixed hex
}

// Sign computes v's canonical payload and signs keccak256(payload) with
// privKeyHex (0x-prefixed or raw hex secp256k1 private key), the same RAW
// signing mode as internal/ethsig.SignCanonicalWithPrivKey.
func Sign(v content.Typed, privKeyHex string) (Signature, error) {
	payload, err := v.CanonicalPayload()
	if err != nil {
		return Signature{}, fmt.Errorf("provenance: canonical payload: %w", err)
	}
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(privKeyHex, "0x"))
	if err != nil {
		return Signature{}, fmt.Errorf("provenance: invalid private key: %w", err)
	}
	hash := crypto.Keccak256(payload)
	sig, err := crypto.Sign(hash, priv)
	if err != nil {
		return Signature{}, fmt.Errorf("provenance: sign: %w", err)
	}
	if sig[64] < 27 {
		sig[64] += 27
	}
	addr := crypto.PubkeyToAddress(priv.PublicKey)
	return Signature{SignerAddress: addr.Hex(), Signature: "0x" + hex.EncodeToString(sig)}, nil
}

// Verify reports whether sig is a valid signature over v's canonical
// payload by sig.SignerAddress.
func Verify(v content.Typed, sig Signature) (bool, error) {
	payload, err := v.CanonicalPayload()
	if err != nil {
		return false, fmt.Errorf("provenance: canonical payload: %w", err)
	}
	sigBytes, err := hex.DecodeString(strings.TrimPrefix(sig.Signature, "0x"))
	if err != nil {
		return false, fmt.Errorf("provenance: invalid signature hex: %w", err)
	}
	if len(sigBytes) != 65 {
		return false, ErrInvalidSignatureLength
	}
	normalized, err := normalizeV(sigBytes)
	if err != nil {
		return false, err
	}
	hash := crypto.Keccak256(payload)
	pubkey, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return false, fmt.Errorf("provenance: recover pubkey: %w", err)
	}
	recovered := crypto.PubkeyToAddress(*pubkey)
	if !common.IsHexAddress(sig.SignerAddress) {
		return false, fmt.Errorf("provenance: invalid signer address: %s", sig.SignerAddress)
	}
	return recovered == common.HexToAddress(sig.SignerAddress), nil
}

// normalizeV converts a 27/28 recovery id to the 0/1 form crypto.SigToPub
// expects, leaving already-normalized values untouched.
func normalizeV(sig []byte) ([]byte, error) {
	out := make([]byte, 65)
	copy(out, sig)
	switch v := out[64]; v {
	case 27, 28:
		out[64] = v - 27
	case 0, 1:
	default:
		return nil, fmt.Errorf("provenance: unsupported recovery id %d", v)
	}
	return out, nil
}
