package transaction

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Signature is an optional transaction signature. The zero value means no
// signature, which is distinct from a present but empty one.
type Signature struct {
	value   []byte
	present bool
}

// NewSignature wraps signature bytes as a present Signature
func NewSignature(b []byte) Signature {
	return Signature{value: bytes.Clone(b), present: true}
}

// Present reports whether a signature exists
func (s Signature) Present() bool {
	return s.present
}

// Bytes returns a copy of the signature, or nil when absent
func (s Signature) Bytes() []byte {
	if !s.present {
		return nil
	}
	return bytes.Clone(s.value)
}

// Hex returns the lowercase hex encoding, or "" when absent
func (s Signature) Hex() string {
	if !s.present {
		return ""
	}
	return hex.EncodeToString(s.value)
}

// Equal reports whether both signatures are absent or hold the same bytes
func (s Signature) Equal(other Signature) bool {
	return s.present == other.present && bytes.Equal(s.value, other.value)
}

// hashHex returns the SHA-256 digest of data as lowercase hex. The bytes are
// in digest order, not the reversed order chainhash.Hash.String uses.
func hashHex(data []byte) string {
	h := chainhash.HashH(data)
	return hex.EncodeToString(h[:])
}

// finalID binds the identifier to the signature:
// hash(initialHash || hex(signature)) when signed, initialHash otherwise.
func finalID(initialHash string, sig Signature) string {
	if !sig.present {
		return initialHash
	}
	return hashHex([]byte(initialHash + sig.Hex()))
}
