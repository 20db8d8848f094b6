package transaction

import (
	"encoding/hex"
	"math"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// InputRecord is the serialized form of an Input
type InputRecord struct {
	PreviousTxID string `json:"previous_tx_id" mapstructure:"previous_tx_id"`
	OutputIndex  int    `json:"output_index" mapstructure:"output_index"`
}

// OutputRecord is the serialized form of an Output
type OutputRecord struct {
	RecipientAddress string  `json:"recipient_address" mapstructure:"recipient_address"`
	Amount           float64 `json:"amount" mapstructure:"amount"`
}

// Record is the persisted and transmitted form of a Transaction.
// Signature is nil for an unsigned transaction and encodes as null.
type Record struct {
	TxID      string         `json:"tx_id" mapstructure:"tx_id"`
	Timestamp float64        `json:"timestamp" mapstructure:"timestamp"`
	Inputs    []InputRecord  `json:"inputs" mapstructure:"inputs"`
	Outputs   []OutputRecord `json:"outputs" mapstructure:"outputs"`
	Signature *string        `json:"signature" mapstructure:"signature"`
}

// Record returns the serializable form of the transaction
func (tx *Transaction) Record() Record {
	rec := Record{
		TxID:      tx.txID,
		Timestamp: tx.timestamp,
		Inputs:    make([]InputRecord, 0, len(tx.inputs)),
		Outputs:   make([]OutputRecord, 0, len(tx.outputs)),
	}
	for _, in := range tx.inputs {
		rec.Inputs = append(rec.Inputs, in.Record())
	}
	for _, out := range tx.outputs {
		rec.Outputs = append(rec.Outputs, out.Record())
	}
	if tx.signature.Present() {
		sig := tx.signature.Hex()
		rec.Signature = &sig
	}
	return rec
}

// Map returns the record as plain maps and slices, the shape a generic JSON
// decoder produces
func (r Record) Map() map[string]interface{} {
	inputs := make([]interface{}, 0, len(r.Inputs))
	for _, in := range r.Inputs {
		inputs = append(inputs, map[string]interface{}{
			"previous_tx_id": in.PreviousTxID,
			"output_index":   in.OutputIndex,
		})
	}

	outputs := make([]interface{}, 0, len(r.Outputs))
	for _, out := range r.Outputs {
		outputs = append(outputs, map[string]interface{}{
			"recipient_address": out.RecipientAddress,
			"amount":            out.Amount,
		})
	}

	var signature interface{}
	if r.Signature != nil {
		signature = *r.Signature
	}

	return map[string]interface{}{
		"tx_id":     r.TxID,
		"timestamp": r.Timestamp,
		"inputs":    inputs,
		"outputs":   outputs,
		"signature": signature,
	}
}

// FromRecord rebuilds a transaction from its record. The identifier is always
// recomputed; a stored tx_id that disagrees is replaced and a warning logged.
func FromRecord(rec Record, opts ...Option) (*Transaction, error) {
	tx, _, err := Reconcile(rec, opts...)
	return tx, err
}

// Reconcile rebuilds a transaction like FromRecord and also reports whether
// the stored tx_id was missing or differed from the recomputed identifier.
func Reconcile(rec Record, opts ...Option) (*Transaction, bool, error) {
	return reconcile(rec, true, opts)
}

func reconcile(rec Record, hasTimestamp bool, opts []Option) (*Transaction, bool, error) {
	inputs := make([]Input, 0, len(rec.Inputs))
	for i, r := range rec.Inputs {
		in, err := NewInput(r.PreviousTxID, r.OutputIndex)
		if err != nil {
			return nil, false, errors.Wrapf(err, "inputs[%d]", i)
		}
		inputs = append(inputs, in)
	}

	if len(rec.Outputs) == 0 {
		return nil, false, errors.Wrap(ErrEmptyOutputs, "record has no outputs")
	}
	outputs := make([]Output, 0, len(rec.Outputs))
	for i, r := range rec.Outputs {
		out, err := NewOutput(r.RecipientAddress, r.Amount)
		if err != nil {
			return nil, false, errors.Wrapf(err, "outputs[%d]", i)
		}
		outputs = append(outputs, out)
	}

	if hasTimestamp {
		opts = append(slices.Clip(opts), WithTimestamp(rec.Timestamp))
	}

	tx, err := New(inputs, outputs, opts...)
	if err != nil {
		return nil, false, err
	}

	if rec.Signature != nil && *rec.Signature != "" {
		sig, err := hex.DecodeString(*rec.Signature)
		if err != nil {
			return nil, false, errors.Wrapf(ErrInvalidArgument, "signature is not valid hex: %v", err)
		}
		tx.signature = NewSignature(sig)
	}

	tx.txID = finalID(tx.InitialHash(), tx.signature)

	corrected := rec.TxID != tx.txID
	if corrected && rec.TxID != "" {
		tx.logger.Warn().
			Str("stored_tx_id", rec.TxID).
			Str("tx_id", tx.txID).
			Msg("record identifier does not match its content, using recomputed identifier")
	}

	return tx, corrected, nil
}

// FromMap rebuilds a transaction from a plain key-value mapping. Unknown
// top-level keys are ignored but unknown keys inside an input or output entry
// are rejected. Integer amounts are accepted and a missing or null timestamp
// means the current time.
func FromMap(m map[string]interface{}, opts ...Option) (*Transaction, error) {
	var (
		rec  Record
		meta mapstructure.Metadata
	)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: integralIndexHook,
		Metadata:   &meta,
		Result:     &rec,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create record decoder")
	}
	if err := decoder.Decode(m); err != nil {
		return nil, errors.Wrapf(ErrInvalidArgument, "failed to decode record: %v", err)
	}

	// nested keys are reported as inputs[0].name
	var unknown []string
	for _, key := range meta.Unused {
		if strings.ContainsAny(key, ".[") {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown record fields: %s", strings.Join(unknown, ", "))
	}

	tx, _, err := reconcile(rec, m["timestamp"] != nil, opts)
	return tx, err
}

// integralIndexHook refuses to truncate fractional or out of range numbers
// into integer fields
func integralIndexHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}

	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}

	if f != math.Trunc(f) {
		return nil, errors.Newf("expected an integer, got %v", f)
	}
	if f < math.MinInt || f >= math.MaxInt {
		return nil, errors.Newf("integer %v out of range", f)
	}
	return data, nil
}

// MarshalJSON encodes the transaction record
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(tx.Record())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}
	return data, nil
}

// Parse decodes a JSON record and rebuilds the transaction through FromMap
func Parse(data []byte, opts ...Option) (*Transaction, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(ErrInvalidArgument, "failed to unmarshal transaction: %v", err)
	}
	return FromMap(m, opts...)
}
