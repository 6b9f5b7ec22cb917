package objectstore

import (
	"encoding/json"
	"fmt"
	"strings"

	cimcid "github.com/cimlabs/cim-ipld/pkg/cid"
	"github.com/cimlabs/cim-ipld/pkg/content"

	"github.com/cimlabs/cim-ipld/internal/provenance"
)

// sigSuffix names the sidecar key PutSigned stores a provenance signature
// under, alongside the CID-keyed object itself — the same one-file-per-CID
// sidecar shape as the teacher's SignaturePath/SaveSignature/ReadSignature,
// generalized from a GitHub-commit signature to any typed content value.
const sigSuffix = ".sig"

// PutSigned is Put plus a provenance.Signature over v's canonical payload,
// signed with privKeyHex and stored as a sidecar object so GetVerified can
// recover it later.
func (s *Store) PutSigned(bucketName string, v content.Typed, privKeyHex string) (cimcid.CID, provenance.Signature, error) {
	c, err := s.Put(bucketName, v)
	if err != nil {
		return cimcid.CID{}, provenance.Signature{}, err
	}
	sig, err := provenance.Sign(v, privKeyHex)
	if err != nil {
		return cimcid.CID{}, provenance.Signature{}, err
	}
	sigBytes, err := json.Marshal(sig)
	if err != nil {
		return cimcid.CID{}, provenance.Signature{}, fmt.Errorf("objectstore: encode signature: %w", err)
	}
	sigKey := c.String() + sigSuffix
	if err := s.bucket.Put(bucketName, sigKey, sigBytes, ObjectInfo{CID: sigKey, Size: len(sigBytes)}); err != nil {
		return cimcid.CID{}, provenance.Signature{}, fmt.Errorf("objectstore: store signature: %w", err)
	}
	return c, sig, nil
}

// GetSignature reads back the signature PutSigned stored alongside want.
func (s *Store) GetSignature(bucketName string, want cimcid.CID) (provenance.Signature, error) {
	data, _, err := s.bucket.Get(bucketName, want.String()+sigSuffix)
	if err != nil {
		return provenance.Signature{}, err
	}
	var sig provenance.Signature
	if err := json.Unmarshal(data, &sig); err != nil {
		return provenance.Signature{}, fmt.Errorf("objectstore: decode signature: %w", err)
	}
	return sig, nil
}

// GetVerified is Get plus signature verification: it re-derives CID
// integrity exactly as Get does, then additionally confirms a signature
// stored by PutSigned is valid over the decoded value's canonical payload
// and was produced by expectedSigner.
func (s *Store) GetVerified(bucketName string, want cimcid.CID, decode func([]byte) (content.Typed, error), expectedSigner string) (content.Typed, error) {
	v, err := s.Get(bucketName, want, decode)
	if err != nil {
		return nil, err
	}
	sig, err := s.GetSignature(bucketName, want)
	if err != nil {
		return nil, fmt.Errorf("objectstore: read signature: %w", err)
	}
	if !strings.EqualFold(sig.SignerAddress, expectedSigner) {
		return nil, fmt.Errorf("objectstore: signature signer %s does not match expected %s", sig.SignerAddress, expectedSigner)
	}
	ok, err := provenance.Verify(v, sig)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("objectstore: invalid signature for %s", want)
	}
	return v, nil
}
