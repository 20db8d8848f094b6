// Package transaction models a signed ledger transaction: inputs spending
// earlier outputs, outputs allocating value, a timestamp and an optional
// signature.
//
// The identifier is derived in two stages. The initial hash is the SHA-256 of
// the canonical payload (timestamp, sorted inputs, sorted outputs). Once a
// signature exists the identifier becomes SHA-256(initialHash + hex(signature)).
// A transaction without inputs is a coinbase and is valid only unsigned.
//
// A Transaction is not safe for concurrent mutation.
package transaction

import (
	"fmt"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Transaction is a set of inputs and outputs with a timestamp and optional signature
type Transaction struct {
	inputs    []Input
	outputs   []Output
	timestamp float64
	signature Signature
	txID      string

	provider KeyProvider
	logger   zerolog.Logger
}

// New creates a transaction. Inputs and outputs are copied and sorted, so the
// identifier does not depend on the order they were supplied in. Without
// WithTimestamp the current time is used. Outputs must not be empty; an empty
// inputs slice makes a coinbase transaction.
func New(inputs []Input, outputs []Output, opts ...Option) (*Transaction, error) {
	o := newOptions(opts)

	for i, in := range inputs {
		if in.previousTxID == "" || in.outputIndex < 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "inputs[%d] is not a valid input", i)
		}
	}
	for i, out := range outputs {
		if out.recipientAddress == "" || !(out.amount > 0) || math.IsInf(out.amount, 0) {
			return nil, errors.Wrapf(ErrInvalidArgument, "outputs[%d] is not a valid output", i)
		}
	}
	if len(outputs) == 0 {
		return nil, ErrEmptyOutputs
	}

	timestamp := o.timestamp
	if !o.hasTimestamp {
		timestamp = unixSeconds(o.clock())
	}
	if math.IsNaN(timestamp) || math.IsInf(timestamp, 0) {
		return nil, errors.Wrapf(ErrInvalidArgument, "timestamp must be finite, got %v", timestamp)
	}

	tx := &Transaction{
		inputs:    slices.Clone(inputs),
		outputs:   slices.Clone(outputs),
		timestamp: timestamp,
		provider:  o.provider,
		logger:    o.logger,
	}
	if tx.inputs == nil {
		tx.inputs = []Input{}
	}

	slices.SortFunc(tx.inputs, Input.Compare)
	slices.SortFunc(tx.outputs, Output.Compare)

	tx.txID = tx.InitialHash()

	return tx, nil
}

// ID returns the transaction identifier
func (tx *Transaction) ID() string {
	return tx.txID
}

// Inputs returns a copy of the sorted inputs
func (tx *Transaction) Inputs() []Input {
	return slices.Clone(tx.inputs)
}

// Outputs returns a copy of the sorted outputs
func (tx *Transaction) Outputs() []Output {
	return slices.Clone(tx.outputs)
}

// Timestamp returns the creation time in seconds since the Unix epoch
func (tx *Transaction) Timestamp() float64 {
	return tx.timestamp
}

// Signature returns the signature, which is absent until Sign succeeds
func (tx *Transaction) Signature() Signature {
	return tx.signature
}

// IsCoinbase reports whether the transaction creates value, i.e. has no inputs
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.inputs) == 0
}

// SigningPayload returns the canonical encoding of the current timestamp,
// inputs and outputs. Signature and identifier are never part of it.
func (tx *Transaction) SigningPayload() []byte {
	return canonicalPayload(tx.inputs, tx.outputs, tx.timestamp)
}

// InitialHash returns the hex SHA-256 of the signing payload, recomputed from
// the current state on every call
func (tx *Transaction) InitialHash() string {
	return hashHex(tx.SigningPayload())
}

// Sign signs the initial hash with privateKey and updates the identifier.
//
// Signing twice fails with ErrAlreadySigned, coinbase or not. An unsigned
// coinbase given no key is left untouched; any other empty key fails with
// ErrMissingKey.
func (tx *Transaction) Sign(privateKey string) error {
	if tx.signature.Present() {
		return errors.Wrapf(ErrAlreadySigned, "transaction %s", tx.txID)
	}
	if tx.IsCoinbase() && privateKey == "" {
		tx.logger.Debug().Str("tx_id", tx.txID).Msg("coinbase transaction left unsigned")
		return nil
	}
	if privateKey == "" {
		return ErrMissingKey
	}

	initialHash := tx.InitialHash()

	sig, err := tx.provider.Sign([]byte(initialHash), []byte(privateKey))
	if err != nil {
		return errors.Wrap(err, "failed to sign transaction")
	}
	if len(sig) == 0 {
		return errors.New("key provider returned an empty signature")
	}

	tx.signature = NewSignature(sig)
	tx.txID = finalID(initialHash, tx.signature)

	tx.logger.Debug().
		Str("initial_hash", initialHash).
		Str("tx_id", tx.txID).
		Msg("transaction signed")

	return nil
}

// VerifySignature checks the signature against publicKey.
//
// A coinbase is valid exactly when it carries no signature, whatever the key.
// A regular transaction is invalid when unsigned or when no key is given;
// otherwise the initial hash is recomputed from the current state and checked,
// so any change after signing makes it fail. Only unusable key material is
// reported as an error.
func (tx *Transaction) VerifySignature(publicKey string) (bool, error) {
	if tx.IsCoinbase() {
		return !tx.signature.Present(), nil
	}
	if !tx.signature.Present() || publicKey == "" {
		return false, nil
	}

	ok, err := tx.provider.Verify(tx.signature.value, []byte(tx.InitialHash()), []byte(publicKey))
	if err != nil {
		return false, errors.Wrap(err, "failed to verify signature")
	}
	return ok, nil
}

func (tx *Transaction) String() string {
	status := "Unsigned"
	if tx.signature.Present() {
		status = "Signed"
	}
	if tx.IsCoinbase() {
		status += " (Coinbase)"
	}

	id := tx.txID
	if len(id) > 10 {
		id = id[:10]
	}

	return fmt.Sprintf("Transaction(id=%s..., inputs_count=%d, outputs_count=%d, status=%s)",
		id, len(tx.inputs), len(tx.outputs), status)
}
