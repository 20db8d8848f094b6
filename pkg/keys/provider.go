package keys

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

// Provider signs and verifies messages with RSASSA-PSS over SHA-256.
// Keys are passed as PEM text. The salt is as long as the key allows when
// signing and auto-detected when verifying, with MGF1 over SHA-256.
type Provider struct {
	// Rand is the entropy source for the PSS salt; crypto/rand when nil
	Rand io.Reader
}

var pssOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthAuto,
	Hash:       crypto.SHA256,
}

// Sign returns the PSS signature of message under the PEM private key
func (p Provider) Sign(message, privateKey []byte) ([]byte, error) {
	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	digest := chainhash.HashB(message)

	signature, err := rsa.SignPSS(p.random(), key, crypto.SHA256, digest, pssOptions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}
	return signature, nil
}

// Verify reports whether signature is a valid PSS signature of message under
// the PEM public key. Only undecodable key material is returned as an error.
func (p Provider) Verify(signature, message, publicKey []byte) (bool, error) {
	key, err := ParsePublicKey(publicKey)
	if err != nil {
		return false, err
	}

	digest := chainhash.HashB(message)

	if err := rsa.VerifyPSS(key, crypto.SHA256, digest, signature, pssOptions); err != nil {
		return false, nil
	}
	return true, nil
}

func (p Provider) random() io.Reader {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.Reader
}
