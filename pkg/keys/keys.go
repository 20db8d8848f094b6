// Package keys provides the RSA key material used to sign and verify
// transactions: key generation, PEM encoding and an RSA-PSS provider.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"

	"github.com/cockroachdb/errors"
)

// DefaultBits is the RSA modulus size used when none is configured
const DefaultBits = 2048

// PEM block types
const (
	pemPrivateKey    = "PRIVATE KEY"
	pemRSAPrivateKey = "RSA PRIVATE KEY"
	pemPublicKey     = "PUBLIC KEY"
	pemRSAPublicKey  = "RSA PUBLIC KEY"
)

// ErrInvalidKey is returned when key material cannot be decoded or is not an RSA key.
var ErrInvalidKey = errors.New("invalid key")

// GenerateRSA creates a new RSA key pair with public exponent 65537.
// A non-positive bits value selects DefaultBits.
func GenerateRSA(bits int) (*rsa.PrivateKey, error) {
	if bits <= 0 {
		bits = DefaultBits
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate %d-bit rsa key", bits)
	}
	return key, nil
}

// EncodePrivateKey serializes a private key as an unencrypted PKCS#8 PEM block
func EncodePrivateKey(key *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal private key")
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: der})), nil
}

// EncodePublicKey serializes a public key as a SubjectPublicKeyInfo PEM block
func EncodePublicKey(key *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal public key")
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemPublicKey, Bytes: der})), nil
}

// ParsePrivateKey decodes a PEM private key. Both PKCS#8 and PKCS#1 blocks are accepted.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.Wrap(ErrInvalidKey, "no PEM block found in private key")
	}

	switch block.Type {
	case pemRSAPrivateKey:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidKey, "failed to parse pkcs1 private key: %v", err)
		}
		return key, nil
	case pemPrivateKey:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidKey, "failed to parse pkcs8 private key: %v", err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidKey, "private key is %T, not rsa", parsed)
		}
		return key, nil
	default:
		return nil, errors.Wrapf(ErrInvalidKey, "unexpected PEM block %q for private key", block.Type)
	}
}

// ParsePublicKey decodes a PEM public key. Both SubjectPublicKeyInfo and PKCS#1 blocks are accepted.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.Wrap(ErrInvalidKey, "no PEM block found in public key")
	}

	switch block.Type {
	case pemRSAPublicKey:
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidKey, "failed to parse pkcs1 public key: %v", err)
		}
		return key, nil
	case pemPublicKey:
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidKey, "failed to parse public key: %v", err)
		}
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidKey, "public key is %T, not rsa", parsed)
		}
		return key, nil
	default:
		return nil, errors.Wrapf(ErrInvalidKey, "unexpected PEM block %q for public key", block.Type)
	}
}

// Pair is a generated key pair together with its PEM encodings
type Pair struct {
	Private    *rsa.PrivateKey
	PrivatePEM string
	PublicPEM  string
}

// NewPair generates a key pair and encodes both halves
func NewPair(bits int) (*Pair, error) {
	key, err := GenerateRSA(bits)
	if err != nil {
		return nil, err
	}

	privatePEM, err := EncodePrivateKey(key)
	if err != nil {
		return nil, err
	}
	publicPEM, err := EncodePublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	return &Pair{Private: key, PrivatePEM: privatePEM, PublicPEM: publicPEM}, nil
}
