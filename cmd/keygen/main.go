// Command keygen generates a secp256k1 keypair for signing stored content
// via internal/provenance, optionally sealing the private key at rest
// under an AEAD key (internal/index's ChaCha20-Poly1305 primitive) instead
// of printing it in the clear. All output goes to stdout; no files are
// written.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/cimlabs/cim-ipld/internal/provenance"
)

func main() {
	privkeyHex := flag.String("privkey", "", "optional: hex-encoded private key to derive the address from (generates a new keypair if not provided)")
	sealHex := flag.String("seal-key", "", "optional: 32-byte hex AEAD key to seal the generated private key under")
	flag.Parse()

	var kp provenance.KeyPair
	var err error
	if *privkeyHex != "" {
		addr, aerr := provenance.AddressFromPrivateKeyHex(*privkeyHex)
		if aerr != nil {
			fmt.Fprintf(os.Stderr, "Failed to load private key: %v\n", aerr)
			os.Exit(1)
		}
		kp = provenance.KeyPair{PrivateKeyHex: *privkeyHex, Address: addr}
	} else {
		kp, err = provenance.GenerateKeyPair()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Address: %s\n", kp.Address)

	if *sealHex == "" {
		fmt.Printf("Private key (unsealed, handle with care): 0x%s\n", kp.PrivateKeyHex)
		return
	}

	encKey, err := hex.DecodeString(*sealHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -seal-key: %v\n", err)
		os.Exit(1)
	}
	sealed, err := provenance.SealKeyPair(encKey, kp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to seal private key: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sealed key_hash=%s iv=%x ciphertext=%x\n", sealed.Sealed.KeyHash, sealed.Sealed.IV, sealed.Sealed.Ciphertext)
}
