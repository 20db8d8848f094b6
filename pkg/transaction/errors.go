package transaction

import (
	"github.com/cockroachdb/errors"

	"github.com/thanhnp/ledger-tx/pkg/keys"
)

var (
	// ErrInvalidArgument is returned for malformed constructor input or record fields.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyOutputs is returned when a transaction would have no outputs.
	ErrEmptyOutputs = errors.New("transaction must have at least one output")
	// ErrAlreadySigned is returned when signing a transaction that already carries a signature.
	ErrAlreadySigned = errors.New("transaction already signed")
	// ErrMissingKey is returned when signing a regular transaction without key material.
	ErrMissingKey = errors.New("private key required to sign transaction")
	// ErrInvalidKey is returned when key material cannot be decoded by the key provider.
	ErrInvalidKey = keys.ErrInvalidKey
)
